package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                    bool   `envconfig:"debug"`
	Port                     int    `envconfig:"port"`
	Env                      string `envconfig:"env"`
	BaseUrl                  string `envconfig:"base_url"`
	PostgresHost             string `envconfig:"postgres_host"`
	PostgresUser             string `envconfig:"postgres_user"`
	PostgresDB               string `envconfig:"postgres_db"`
	PostgresPort             int    `envconfig:"postgres_port"`
	PostgresPassword         string `envconfig:"postgres_password"`
	JWTSecret                string `envconfig:"jwt_secret"`
	DeepseekBaseUrl          string `envconfig:"deepseek_base_url"`
	DeepseekApiKey           string `envconfig:"deepseek_api_key"`
	DeepseekModel            string `envconfig:"deepseek_model"`
	AwsRegion                string `envconfig:"aws_region"`
	ChatFilesBucket          string `envconfig:"chat_files_bucket"`
	QuickbooksClientID       string `envconfig:"quickbooks_client_id"`
	QuickbooksRedirectURL    string `envconfig:"quickbooks_redirect_url"`
	MailgunApiKey            string `envconfig:"mg_public_api_key"`
	MgDomain                 string `envconfig:"mg_domain"`
	MgEmailFrom              string `envconfig:"email_from"`
	AccessControlAllowOrigin string `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("fincoach", c)
	if err != nil {
		return nil, err
	}

	if c.DeepseekBaseUrl == "" {
		c.DeepseekBaseUrl = "https://api.deepseek.com"
	}
	if c.DeepseekModel == "" {
		c.DeepseekModel = "deepseek-chat"
	}
	if c.ChatFilesBucket == "" {
		c.ChatFilesBucket = "chat-files"
	}
	return c, nil
}
