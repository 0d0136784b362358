package conf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validSettings() *Settings {
	return &Settings{
		Sources: SourceSettings{
			Nutrients: "NUTR_DEF.txt",
			UnitMap:   "dri_unit_map.csv",
			DRI:       []string{"dri_elements.csv", "dri_vitamins.csv", "dri_macro.csv"},
		},
		Output: OutputSettings{
			Catalog:   "nutrient_lkup.csv",
			Reference: "nutrient_ref_final.csv",
		},
		Profile: ProfileSettings{Sex: "female", Age: 30},
	}
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{"valid", func(s *Settings) {}, ""},
		{"empty dri path", func(s *Settings) { s.Sources.DRI[1] = " " }, "sources.dri[1] is empty"},
		{"missing reference", func(s *Settings) { s.Output.Reference = "" }, "output.reference must be set"},
		{"catalog equals reference", func(s *Settings) { s.Output.Catalog = s.Output.Reference }, "must differ"},
		{"bad sex", func(s *Settings) { s.Profile.Sex = "x" }, "profile.sex"},
		{"negative age", func(s *Settings) { s.Profile.Age = -1 }, "profile.age"},
		{"numeric sex", func(s *Settings) { s.Profile.Sex = "1" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := validSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEmbeddedDefaultConfigUnmarshals(t *testing.T) {
	t.Parallel()

	data, err := getDefaultConfig()
	require.NoError(t, err)

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewReader(data)))

	var settings Settings
	require.NoError(t, v.Unmarshal(&settings))

	assert.Len(t, settings.Sources.DRI, 3)
	assert.Equal(t, "data/prod/nutrient_ref_final.csv", settings.Output.Reference)
	assert.Equal(t, "info", settings.Logging.DefaultLevel)
	require.NotNil(t, settings.Logging.FileOutput)
	assert.Equal(t, "logs/nutridri.log", settings.Logging.FileOutput.Path)
	require.NoError(t, ValidateSettings(&settings))
}

func TestSaveYAMLConfig(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("old: true\n"), 0o600))

	settings := validSettings()
	require.NoError(t, SaveYAMLConfig(configPath, settings))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var roundTrip Settings
	require.NoError(t, yaml.Unmarshal(data, &roundTrip))
	assert.Equal(t, settings.Output, roundTrip.Output)
	assert.Equal(t, settings.Sources.DRI, roundTrip.Sources.DRI)

	entries, err := os.ReadDir(filepath.Dir(configPath))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestValidateEnvValues(t *testing.T) {
	t.Parallel()

	require.NoError(t, validateEnvAge("42"))
	require.Error(t, validateEnvAge("old"))
	require.Error(t, validateEnvAge("200"))
	require.NoError(t, validateEnvSex("M"))
	require.Error(t, validateEnvSex("unknown"))
	require.NoError(t, validateEnvBool("true"))
	require.Error(t, validateEnvBool("yes please"))
}
