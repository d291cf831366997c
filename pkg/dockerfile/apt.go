package dockerfile

import (
	"strings"
)

const aptCacheMount = "--mount=type=cache,target=/var/cache/apt,id=apt"

// aptInstall installs packages and refreshes the certificate store. Nothing
// is rendered for an empty package list.
func aptInstall(packages []string) string {
	if len(packages) == 0 {
		return ""
	}
	return continued(
		"RUN "+aptCacheMount,
		"apt-get update && apt-get install -y --no-install-recommends",
		strings.Join(packages, " "),
		"&& update-ca-certificates",
		"&& rm -rf /var/lib/apt/lists/*",
	)
}
