package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// initConfig loads .env files, then the config file and environment.
func initConfig() {
	dirs := searchDirs()

	// godotenv never overrides variables already set, so the first file wins.
	for _, dir := range dirs {
		_ = godotenv.Load(filepath.Join(dir, ".env"))
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		for _, dir := range dirs {
			viper.AddConfigPath(dir)
		}
		viper.SetConfigName("schema-deploy")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// searchDirs is the executable's directory, then the working directory.
func searchDirs() []string {
	var dirs []string
	if ex, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(ex))
	}
	return append(dirs, ".")
}
