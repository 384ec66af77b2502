package config

import (
	"fmt"
	"os"
)

// exampleConfig is written by `blog init`. It mirrors the shape of a real
// site config so a new site starts from something that builds.
const exampleConfig = `baseURL: https://blog.example.com/
title: Example Technical Blog
theme: PaperMod

pagination:
  pagerSize: 10

buildDrafts: false
buildFuture: false
buildExpired: false

enableGitInfo: true
enableRobotsTXT: true

params:
  ShowReadingTime: true
  ShowToc: true
  defaultTheme: auto

menu:
  main:
    - identifier: archives
      name: Archives
      url: /archives/
      weight: 10
    - identifier: tags
      name: Tags
      url: /tags/
      weight: 20
    - identifier: search
      name: Search
      url: /search/
      weight: 30

markup:
  highlight:
    style: monokai
    lineNos: true
    codeFences: true
`

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
