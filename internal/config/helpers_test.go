package config

import "custodian/internal/adapters/kubernetes"

func kubeHandler(pattern, kind string) kubernetes.HandlerConfig {
	return kubernetes.HandlerConfig{Pattern: pattern, Kind: kind}
}
