package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eslsoft/pronadmin/internal/usecase/backup"
)

func sectionsFromConfig(key string) []string {
	return normalizeSections(viper.GetStringSlice(key))
}

func normalizeSections(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, value := range values {
		name := strings.TrimSpace(value)
		if name == "" {
			continue
		}
		result = append(result, strings.ToLower(name))
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// newBackupService builds the backup service over the signed-in API client.
func newBackupService(cmd *cobra.Command) (*backup.Service, error) {
	env, err := newCLIEnv(cmd)
	if err != nil {
		return nil, err
	}
	categories := env.client.Categories()
	if !env.schema().HasCategoryAPI() {
		categories = nil
	}
	return backup.NewService(categories, env.client.Dialogs(), env.client.Phrases(), env.schema(), backup.WithLogger(env.log)), nil
}

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}
