// Package dataset 加载引擎的构造输入：用户、物品和初始行为。
//
// 支持三种来源：
//   - YAML / JSON 文件（LoadFile）
//   - 商品评论 CSV（LoadReviewsCSV）
//   - 确定性的合成数据（Generate）
package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/rtrec/core"
)

// Dataset 是 engine.New 的输入。
type Dataset struct {
	Users        []core.User        `json:"users" yaml:"users"`
	Items        []core.Item        `json:"items" yaml:"items"`
	Interactions []core.Interaction `json:"interactions" yaml:"interactions"`
}

// Format 是数据文件格式。
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatReviews Format = "reviews-csv"
)

// FormatOf 按扩展名推断格式。
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatReviews, nil
	default:
		return "", core.NewDomainError(core.ModuleDataset, core.ErrorCodeNotSupported,
			fmt.Sprintf("dataset: unsupported file extension %q", filepath.Ext(path)))
	}
}

// LoadFile 读取数据文件。评论 CSV 中缺失的时间戳使用 now。
func LoadFile(path string, now time.Time) (*Dataset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	switch format {
	case FormatReviews:
		return LoadReviewsCSV(bytes.NewReader(data), now)
	case FormatJSON:
		var ds Dataset
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, invalid(path, err)
		}
		return &ds, nil
	default:
		var ds Dataset
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, invalid(path, err)
		}
		return &ds, nil
	}
}

// WriteFile 按扩展名把数据集写成 YAML 或 JSON。
func WriteFile(path string, ds *Dataset) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(ds, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(ds)
	default:
		return core.NewDomainError(core.ModuleDataset, core.ErrorCodeNotSupported,
			fmt.Sprintf("dataset: cannot write %s", format))
	}
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}

func invalid(path string, err error) error {
	return core.WrapDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
		fmt.Sprintf("dataset: decode %s", path), err)
}
