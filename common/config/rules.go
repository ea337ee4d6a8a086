package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Senmiao-vhp/majsoul/common/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "MAJSOUL"

// Config 模拟器进程配置
type Config struct {
	AppName    string  `mapstructure:"appName"`
	Log        LogConf `mapstructure:"log"`
	MetricPort int     `mapstructure:"metricPort"`
	Rules      Rules   `mapstructure:"rules"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

// Rules 建桌时读取一次的规则集，之后对该桌只读
type Rules struct {
	PlayerCount    int           `mapstructure:"playerCount"`
	StartingPoints int           `mapstructure:"startingPoints"`
	OpenTanyao     bool          `mapstructure:"openTanyao"`    // 食断
	RedFives       bool          `mapstructure:"redFives"`      // 赤宝牌
	DoubleYakuman  bool          `mapstructure:"doubleYakuman"` // 双倍役满
	NotenPenalty   int           `mapstructure:"notenPenalty"`  // 荒牌流局不听罚符总额，0 表示关闭
	PlacementBonus []int         `mapstructure:"placementBonus"`
	CallTimeout    time.Duration `mapstructure:"callTimeout"` // 鸣牌窗口超时，0 表示不限时
	Seed           int64         `mapstructure:"seed"`        // 洗牌种子，0 表示按时间
}

// Default 无配置文件时使用的规则集
func Default() Rules {
	return Rules{
		PlayerCount:    4,
		StartingPoints: 25000,
		OpenTanyao:     true,
		RedFives:       true,
		DoubleYakuman:  false,
		NotenPenalty:   3000,
		PlacementBonus: []int{30000, 10000, -10000, -30000},
	}
}

// Validate 校验规则集
func (r Rules) Validate() error {
	if r.PlayerCount != 4 {
		return fmt.Errorf("只支持 4 人对局, playerCount=%d", r.PlayerCount)
	}
	if r.StartingPoints <= 0 || r.StartingPoints%100 != 0 {
		return fmt.Errorf("起始点数必须为 100 的正整数倍, startingPoints=%d", r.StartingPoints)
	}
	// 1~3 人听牌时都要能整除
	if r.NotenPenalty < 0 || r.NotenPenalty%6 != 0 {
		return fmt.Errorf("不听罚符必须为 6 的非负整数倍, notenPenalty=%d", r.NotenPenalty)
	}
	if len(r.PlacementBonus) != 4 {
		return fmt.Errorf("顺位马必须有 4 项, got %d", len(r.PlacementBonus))
	}
	sum := 0
	for _, b := range r.PlacementBonus {
		sum += b
	}
	if sum != 0 {
		return fmt.Errorf("顺位马之和必须为 0, got %d", sum)
	}
	if r.CallTimeout < 0 {
		return fmt.Errorf("鸣牌超时不能为负: %s", r.CallTimeout)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("appName", "riichi")
	v.SetDefault("log.level", "info")
	v.SetDefault("metricPort", 0)
	v.SetDefault("rules.playerCount", d.PlayerCount)
	v.SetDefault("rules.startingPoints", d.StartingPoints)
	v.SetDefault("rules.openTanyao", d.OpenTanyao)
	v.SetDefault("rules.redFives", d.RedFives)
	v.SetDefault("rules.doubleYakuman", d.DoubleYakuman)
	v.SetDefault("rules.notenPenalty", d.NotenPenalty)
	v.SetDefault("rules.placementBonus", d.PlacementBonus)
	v.SetDefault("rules.callTimeout", d.CallTimeout)
	v.SetDefault("rules.seed", d.Seed)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("解析配置文件出错: %w", err)
	}
	if err := conf.Rules.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Load 读取配置，configFile 为空时只使用默认值和环境变量
func Load(configFile string) (*Config, error) {
	v := newViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件出错: %w", err)
		}
	}
	return decode(v)
}

// Watch 监听配置文件，变更后把新规则交给 onChange；新规则只对之后创建的桌生效
func Watch(configFile string, onChange func(Rules)) error {
	v := newViper()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件出错: %w", err)
	}
	v.OnConfigChange(func(in fsnotify.Event) {
		conf, err := decode(v)
		if err != nil {
			log.Warn("配置热更新被忽略, file=%s, err=%v", in.Name, err)
			return
		}
		log.Info("配置已更新, file=%s, op=%s", in.Name, in.Op)
		onChange(conf.Rules)
	})
	v.WatchConfig()
	return nil
}
