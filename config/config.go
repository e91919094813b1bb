package config

const (
	AppName = "update-bin"
	Version = "0.3.0"

	RepoOwner = "yoheiyayoi"
	RepoName  = "update-bin"
)
