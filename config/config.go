package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/cordialsys/crosschain-avax/config/constants"
	vault "github.com/hashicorp/vault/api"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var noSuchFile = "no such file"
var notFoundIn = "not found in"

func getViper() *viper.Viper {
	// own instance so nothing else registered on the global viper leaks in
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// If the config location env is set, use that.
	v.SetConfigFile(os.Getenv(constants.ConfigEnv))

	// otherwise, prioritize current path or parent
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	// Lastly, check home dir
	v.AddConfigPath(constants.DefaultHome)

	return v
}

// Load configuration.
// 1. Read in a configuration file based on environment variables and current path.
// 2. If a section is provided, e.g. "avax", then only that section will be treated as root and deserialized.
// 3. You may optionally provide an existing configuration object with default values.
// 4. If defaults are provided, an error will _not_ be returned if no config is found.
func RequireConfig(section string, unmarshalDst interface{}, defaults interface{}) error {
	return requireConfig(getViper(), section, unmarshalDst, defaults)
}

// RequireConfigFile is RequireConfig reading one explicit file.
func RequireConfigFile(path string, section string, unmarshalDst interface{}, defaults interface{}) error {
	v := getViper()
	v.SetConfigFile(path)
	return requireConfig(v, section, unmarshalDst, defaults)
}

func requireConfig(v *viper.Viper, section string, unmarshalDst interface{}, defaults interface{}) error {
	err := v.ReadInConfig()
	if err != nil {
		msg := strings.ToLower(err.Error())
		var notFound viper.ConfigFileNotFoundError
		if defaults != nil && (errors.As(err, &notFound) || strings.Contains(msg, noSuchFile) || strings.Contains(msg, notFoundIn)) {
			// use the defaults by serializing and deserializing
			bz, err := yaml.Marshal(defaults)
			if err != nil {
				return err
			}
			return yaml.Unmarshal(bz, unmarshalDst)
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	// viper does not support partial deserialization so we
	// have to re-serialize and parse again
	var asMap map[string]interface{}
	if section != "" {
		asMap = v.GetStringMap(section)
	} else {
		asMap = v.AllSettings()
	}
	bz, err := yaml.Marshal(asMap)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(bz, unmarshalDst); err != nil {
		return err
	}

	if defaults != nil {
		return ApplyDefaults(defaults, unmarshalDst, unmarshalDst)
	}
	return nil
}

func newVaultClient(cfg *vault.Config) (VaultLoader, error) {
	cli, err := vault.NewClient(cfg)
	if err != nil {
		return &DefaultVaultLoader{}, err
	}
	return &DefaultVaultLoader{Client: cli}, nil
}

var NewVaultClient = newVaultClient

type DefaultVaultLoader struct {
	*vault.Client
}

var _ VaultLoader = &DefaultVaultLoader{}

func (v *DefaultVaultLoader) LoadSecretData(vaultPath string) (*vault.Secret, error) {
	secret, err := v.Logical().Read(vaultPath)
	if err != nil || secret == nil { // yes, secret can be nil
		return &vault.Secret{}, err
	}
	return secret, nil
}

type VaultLoader interface {
	LoadSecretData(path string) (*vault.Secret, error)
}

// GsmLoader reads one version of a Google Secret Manager secret.
type GsmLoader interface {
	AccessSecret(ctx context.Context, name string) ([]byte, error)
	Close() error
}

type DefaultGsmLoader struct {
	*secretmanager.Client
}

var _ GsmLoader = &DefaultGsmLoader{}

func newGsmClient(ctx context.Context) (GsmLoader, error) {
	// credentials come from the environment (GOOGLE_APPLICATION_CREDENTIALS or metadata server)
	cli, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &DefaultGsmLoader{Client: cli}, nil
}

var NewGsmClient = newGsmClient

func (g *DefaultGsmLoader) AccessSecret(ctx context.Context, name string) ([]byte, error) {
	res, err := g.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return nil, err
	}
	return res.GetPayload().GetData(), nil
}

// GsmSecretName builds the resource name from "project,secret[,version]".
func GsmSecretName(args string) (string, error) {
	parts := strings.Split(args, ",")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return "", errors.New("gsm secret has 2 or 3 comma separated arguments (project,secret[,version])")
	}
	version := "latest"
	if len(parts) == 3 && parts[2] != "" {
		version = parts[2]
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/%s", parts[0], parts[1], version), nil
}

// GetSecret dereferences a secret reference of the form "<type>:<args>", e.g. "env:XC_PRIVATE_KEY".
func GetSecret(uri string) (string, error) {
	splits := strings.Split(uri, ":")
	if len(splits) < 2 {
		return "", errors.New("invalid secret source for: ***")
	}

	path := splits[1]
	switch SecretType(splits[0]) {
	case Env:
		return strings.TrimSpace(os.Getenv(path)), nil
	case Raw:
		return strings.Join(splits[1:], ":"), nil
	case File:
		if len(path) > 1 && path[0] == '~' {
			path = strings.Replace(path, "~", os.Getenv("HOME"), 1)
		}
		result, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(result)), nil
	case Vault:
		vaultArgString := strings.Join(splits[1:], ":")
		vaultArgs := strings.Split(vaultArgString, ",")
		if len(vaultArgs) != 2 {
			return "", errors.New("vault secret has 2 comma separated arguments (url,path)")
		}
		// expect VAULT_TOKEN in env
		vaultUrl := vaultArgs[0]
		vaultFullPath := vaultArgs[1]

		client, err := NewVaultClient(&vault.Config{Address: vaultUrl})
		if err != nil {
			return "", err
		}

		idx := strings.LastIndex(vaultFullPath, "/")
		if idx == -1 || idx == len(vaultFullPath)-1 {
			return "", errors.New("malformed vault secret in config file")
		}
		vaultKey := vaultFullPath[idx+1:]
		vaultPath := vaultFullPath[:idx]

		secret, err := client.LoadSecretData(vaultPath)
		if err != nil {
			return "", err
		}
		data, _ := secret.Data["data"].(map[string]interface{})
		result, _ := data[vaultKey].(string)
		return strings.TrimSpace(result), nil
	case GoogleSecretManager:
		name, err := GsmSecretName(strings.Join(splits[1:], ":"))
		if err != nil {
			return "", err
		}
		ctx := context.Background()
		client, err := NewGsmClient(ctx)
		if err != nil {
			return "", err
		}
		defer client.Close()
		data, err := client.AccessSecret(ctx, name)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", errors.New("invalid secret source for: ***")
}
