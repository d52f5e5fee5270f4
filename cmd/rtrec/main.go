// Package main 是 rtrec 命令行：从数据集文件（或合成数据）加载进程内推荐引擎，
// 通过子命令驱动。
package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "github.com/rushteam/rtrec/config/builders"
)

var (
	// configPath YAML 配置文件
	configPath string
	// dataPath 覆盖配置中的 data.path
	dataPath string
	// logLevel 覆盖配置中的 log.level
	logLevel string
	// jsonOutput 输出 JSON
	jsonOutput bool
	// 版本信息
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rtrec",
	Short: "Real-time recommendation engine",
	Long: `rtrec builds a recommendation engine from users, items and interactions,
then answers recommendation, similar-user, popular-item and stats queries.

Data comes from --data (YAML, JSON or a product-review CSV) or, when no
data file is configured, from a deterministic synthetic dataset.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $RTREC_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "dataset file (.yaml, .json, .csv)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON output")

	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(popularCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(simulateCmd)
}
