package config

import (
	"os"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/metric"
	"gopkg.in/yaml.v3"

	"github.com/localfy/notify-server/api"
	"github.com/localfy/notify-server/auth"
	"github.com/localfy/notify-server/db"
	"github.com/localfy/notify-server/dispatch/provider/expo"
	"github.com/localfy/notify-server/dispatch/provider/fcm"
	"github.com/localfy/notify-server/queue"
	"github.com/localfy/notify-server/redisprovider"
)

const CName = "config"

func NewFromFile(path string) (c *Config, err error) {
	c = &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return
}

type Config struct {
	Mongo  db.Mongo             `yaml:"mongo"`
	Redis  redisprovider.Config `yaml:"redis"`
	Metric metric.Config        `yaml:"metric"`
	FCM    fcm.Config           `yaml:"fcm"`
	Expo   expo.Config          `yaml:"expo"`
	Auth   auth.Config          `yaml:"auth"`
	API    api.Config           `yaml:"api"`
	Queue  queue.Config         `yaml:"queue"`
}

func (c *Config) Init(a *app.App) (err error) {
	return nil
}

func (c *Config) Name() (name string) {
	return CName
}

func (c *Config) GetMongo() db.Mongo {
	return c.Mongo
}

func (c *Config) GetRedis() redisprovider.Config {
	return c.Redis
}

func (c *Config) GetMetric() metric.Config {
	return c.Metric
}

func (c *Config) GetFCM() fcm.Config {
	return c.FCM
}

func (c *Config) GetExpo() expo.Config {
	return c.Expo
}

func (c *Config) GetAuth() auth.Config {
	return c.Auth
}

func (c *Config) GetAPI() api.Config {
	return c.API
}

func (c *Config) GetQueue() queue.Config {
	return c.Queue
}
