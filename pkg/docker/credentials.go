package docker

import (
	"io"

	"github.com/docker/cli/cli/config"
	"github.com/docker/cli/cli/config/configfile"
	"github.com/google/go-containerregistry/pkg/name"

	"github.com/replicate/envspec/pkg/util/console"
)

// dockerHubAuthKey is the key the docker CLI stores Docker Hub credentials under.
const dockerHubAuthKey = "https://index.docker.io/v1/"

// HasCredentials reports whether the docker CLI config holds credentials for
// registryHost.
func HasCredentials(registryHost string) bool {
	return hasCredentials(config.LoadDefaultConfigFile(io.Discard), registryHost)
}

func hasCredentials(conf *configfile.ConfigFile, registryHost string) bool {
	if _, ok := conf.CredentialHelpers[registryHost]; ok {
		console.Debugf("Found credential helper for %s", registryHost)
		return true
	}

	key := registryHost
	if key == name.DefaultRegistry || key == "docker.io" {
		key = dockerHubAuthKey
	}
	if auth, ok := conf.AuthConfigs[key]; ok && (auth.Auth != "" || auth.Password != "" || auth.IdentityToken != "") {
		return true
	}

	// A credentials store may hold anything, so trust it.
	if conf.CredentialsStore != "" {
		console.Debugf("Using credentials store %s for %s", conf.CredentialsStore, registryHost)
		return true
	}
	return false
}

// RegistryHost returns the registry part of an image reference.
func RegistryHost(image string) (string, error) {
	ref, err := name.ParseReference(image, name.WeakValidation)
	if err != nil {
		return "", err
	}
	return ref.Context().RegistryStr(), nil
}
