package config

import (
	"os"
	"gopkg.in/yaml.v3"

	"pixveil/util"
	"pixveil/cryptography"
)

/*
 * embedding options. use_alpha must match between the hiding and the
 * revealing side, it changes the channel walk for the whole stream.
 */
type StegoConfig struct {
	UseAlpha	bool	`yaml:"use_alpha"`
	// png or bmp. empty keeps whatever format the carrier had.
	OutputFormat	string	`yaml:"output_format"`
}

type FullConfig struct {
	Stego	StegoConfig	`yaml:"stego_config"`
	Logger	util.LoggerInfo	`yaml:"logger_config"`
}

func DefaultConfig() *FullConfig {
	return &FullConfig{
		StegoConfig{
			false,
			"",
		},
		util.LoggerInfo{
			Filename:	"",
			Password:	"",
			IsEncrypted:	false,
			IsColored:	true,
			SaveTime:	false,
			Mode:		util.Error | util.Warning,
		},
	}
}

/*
 * loading and saving configuration in YAML format.
 */
func LoadConfig( filename string ) (*FullConfig, error) {
	data, err := os.ReadFile( filename )
	if err != nil {
		return nil, err
	}
	var conf FullConfig
	if err := yaml.Unmarshal( data, &conf ); err != nil {
		return nil, err
	}
	return &conf, nil
}

func SaveConfig( filename string, c *FullConfig ) error {
	data, err := yaml.Marshal( *c )
	if err != nil {
		return err
	}
	return os.WriteFile( filename, data, 0600 )
}

/*
 * encrypted variants, for keeping the configuration on the same drive
 * as the stego images without it reading like a manifest of them.
 */
func LoadEncrypted( filename string, key []byte ) (*FullConfig, error) {
	data, err := os.ReadFile( filename )
	if err != nil {
		return nil, err
	}
	dec, err := cryptography.Decrypt( data, key )
	if err != nil {
		return nil, err
	}
	var conf FullConfig
	if err := yaml.Unmarshal( dec, &conf ); err != nil {
		return nil, err
	}
	return &conf, nil
}

func SaveEncrypted( filename string, key []byte, c *FullConfig ) error {
	data, err := yaml.Marshal( *c )
	if err != nil {
		return err
	}
	enc, err := cryptography.Encrypt( data, key )
	if err != nil {
		return err
	}
	return os.WriteFile( filename, enc, 0600 )
}
