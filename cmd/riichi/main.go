package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Senmiao-vhp/majsoul/common/config"
	"github.com/Senmiao-vhp/majsoul/common/log"
	"github.com/Senmiao-vhp/majsoul/common/metrics"
	"github.com/spf13/cobra"
)

var (
	configFile string
	hands      int
	tables     int
	seed       int64
	metricPort int
)

var rootCmd = &cobra.Command{
	Use:   "riichi",
	Short: "riichi 日麻四人对局引擎",
	Long:  `riichi 日麻四人对局引擎的命令行工具：按规则集模拟对局、查看生效的规则`,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "用摸切策略模拟若干局并输出终局顺位",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load(configFile)
		if err != nil {
			return err
		}
		log.InitLog(conf.AppName, conf.Log.Level)
		log.Info("配置文件: %+v", conf)

		if cmd.Flags().Changed("metricPort") {
			conf.MetricPort = metricPort
		}
		if conf.MetricPort > 0 {
			go func() {
				log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", conf.MetricPort)
				if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", conf.MetricPort)); err != nil {
					log.Error("监控服务退出: %v", err)
				}
			}()
		}

		sim := newSimulator(conf.Rules)
		if cmd.Flags().Changed("seed") {
			sim.setSeed(seed)
		}
		if configFile != "" {
			if err := config.Watch(configFile, sim.updateRules); err != nil {
				return err
			}
		}
		return sim.run(context.Background(), cmd.OutOrStdout(), tables, hands)
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "输出生效的规则集",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load(configFile)
		if err != nil {
			return err
		}
		printRules(cmd.OutOrStdout(), conf.Rules)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "configFile", "", "rules file (yaml/json/toml)")
	simulateCmd.Flags().IntVar(&hands, "hands", 8, "hands per table")
	simulateCmd.Flags().IntVar(&tables, "tables", 1, "tables to play one after another")
	simulateCmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed, 0 = time based")
	simulateCmd.Flags().IntVar(&metricPort, "metricPort", 0, "statsviz port, 0 = disabled")
	rootCmd.AddCommand(simulateCmd, rulesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %v", err)
		os.Exit(1)
	}
}
