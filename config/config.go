package config

import (
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		DSN string `mapstructure:"dsn"` // "memory" or a SQLite file path
	}
	Knowledge struct {
		FilePath string `mapstructure:"file_path"` // 群聊提取知识库的Markdown文件
	}
	Upload struct {
		Dir         string `mapstructure:"dir"`
		MaxFiles    int    `mapstructure:"max_files"`
		MaxFileSize int64  `mapstructure:"max_file_size"` // bytes
	}
}

// AppConfig is the global configuration instance.
var AppConfig Config

// LoadConfig loads configuration from config.yaml and environment variables.
func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../config")

	viper.SetDefault("server.port", "3001")
	viper.SetDefault("database.dsn", "data/qa-community.db")
	viper.SetDefault("knowledge.file_path", "extracted_qa.md")
	viper.SetDefault("upload.dir", "uploads")
	viper.SetDefault("upload.max_files", 6)
	viper.SetDefault("upload.max_file_size", 5*1024*1024)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			log.Fatalf("FATAL: [Config] Error reading configuration file: %v", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("FATAL: [Config] Failed to unmarshal configuration into AppConfig struct: %v", err)
	}

	// Environment variable overrides
	if port := os.Getenv("PORT"); port != "" {
		AppConfig.Server.Port = port
		log.Printf("INFO: [Config] Server port overridden by environment variable PORT: %s", port)
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		AppConfig.Database.DSN = dsn
		log.Printf("INFO: [Config] Database DSN overridden by environment variable DATABASE_DSN.")
	}
	if knowledgeFile := os.Getenv("KNOWLEDGE_FILE"); knowledgeFile != "" {
		AppConfig.Knowledge.FilePath = knowledgeFile
		log.Printf("INFO: [Config] Knowledge file overridden by environment variable KNOWLEDGE_FILE: %s", knowledgeFile)
	}
	if uploadDir := os.Getenv("UPLOAD_DIR"); uploadDir != "" {
		AppConfig.Upload.Dir = uploadDir
		log.Printf("INFO: [Config] Upload dir overridden by environment variable UPLOAD_DIR: %s", uploadDir)
	}

	log.Println("INFO: [Config] Configuration loading complete.")
}
