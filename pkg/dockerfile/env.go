package dockerfile

import (
	"strings"

	"github.com/replicate/envspec/pkg/spec"
	"github.com/replicate/envspec/pkg/util/console"
)

const (
	ImageIDEnvVarName     = "_F_IMG_ID"
	PythonPathEnvVarName  = "PYTHONPATH"
	TracebacksEnvVarName  = "FLYTE_SDK_RICH_TRACEBACKS"
	SSLCertDirEnvVarName  = "SSL_CERT_DIR"
	defaultSSLCertDir     = "/etc/ssl/certs"
	defaultRichTracebacks = "0"
)

// imageEnv returns the fixed variables followed by the spec's, in order.
// A repeated name keeps its first position and takes its last value.
func imageEnv(s *spec.Spec) []spec.EnvVar {
	fixed := []spec.EnvVar{
		{Name: PythonPathEnvVarName, Value: WorkDir},
		{Name: TracebacksEnvVarName, Value: defaultRichTracebacks},
		{Name: SSLCertDirEnvVarName, Value: defaultSSLCertDir},
		{Name: ImageIDEnvVarName, Value: s.ImageName()},
	}
	isFixed := map[string]bool{}
	for _, e := range fixed {
		isFixed[e.Name] = true
	}

	merged := []spec.EnvVar{}
	index := map[string]int{}
	add := func(e spec.EnvVar) {
		if i, ok := index[e.Name]; ok {
			merged[i].Value = e.Value
			return
		}
		index[e.Name] = len(merged)
		merged = append(merged, e)
	}
	for _, e := range fixed {
		add(e)
	}
	for _, e := range s.Env {
		if isFixed[e.Name] {
			console.Warnf("Environment variable %s overrides the image default", e.Name)
		}
		add(e)
	}
	return merged
}

func envLine(vars []spec.EnvVar) string {
	if len(vars) == 0 {
		return ""
	}
	pairs := make([]string, len(vars))
	for i, e := range vars {
		pairs[i] = e.Name + "=" + e.Value
	}
	return "ENV " + strings.Join(pairs, " ")
}
