package usecase

import (
	"fmt"

	"pipelineai/internal/domain/entity"
)

const githubActionsTemplate = `name: CI/CD Pipeline

on:
  push:
    branches: [ main, develop ]
  pull_request:
    branches: [ main ]

jobs:
  build:
    runs-on: ubuntu-latest
    steps:
    - uses: actions/checkout@v4
    - name: Setup %s
      uses: actions/setup-%s
    - name: Install dependencies
      run: %s
    - name: Run tests
      run: %s`

const genericTemplate = `stages:
  - build
  - test

build:
  stage: build
  script:
    - echo "Building %s..."`

// GenerateTemplate returns the canned pipeline used when the LLM call fails.
// Only github-actions gets a platform-shaped workflow; every other platform
// shares the generic two-stage skeleton.
func GenerateTemplate(language entity.Language, platform entity.Platform) string {
	switch platform {
	case entity.PlatformGitHubActions:
		return fmt.Sprintf(githubActionsTemplate,
			language, setupAction(language), installCommand(language), testCommand(language))
	case entity.PlatformGitLabCI, entity.PlatformCircleCI, entity.PlatformJenkins, entity.PlatformAWSCodePipeline:
		return fmt.Sprintf(genericTemplate, language)
	default:
		return fmt.Sprintf(genericTemplate, language)
	}
}

// setupAction is the actions/setup-* suffix. unknown@v1 is not a real action.
func setupAction(language entity.Language) string {
	switch language {
	case entity.LanguageNodeJS:
		return "node@v4"
	case entity.LanguagePython:
		return "python@v5"
	default:
		return "unknown@v1"
	}
}

func installCommand(language entity.Language) string {
	switch language {
	case entity.LanguageNodeJS:
		return "npm ci"
	case entity.LanguagePython:
		return "pip install -r requirements.txt"
	default:
		return `echo "Install"`
	}
}

func testCommand(language entity.Language) string {
	switch language {
	case entity.LanguageNodeJS:
		return "npm test"
	case entity.LanguagePython:
		return "pytest"
	default:
		return `echo "Test"`
	}
}

// FilePath is the conventional location of the pipeline file for platform,
// relative to the repository root.
func FilePath(platform entity.Platform) string {
	switch platform {
	case entity.PlatformGitHubActions:
		return ".github/workflows/ci-cd.yml"
	case entity.PlatformGitLabCI:
		return ".gitlab-ci.yml"
	case entity.PlatformCircleCI:
		return ".circleci/config.yml"
	case entity.PlatformJenkins:
		return "Jenkinsfile"
	case entity.PlatformAWSCodePipeline:
		return "buildspec.yml"
	default:
		return "pipeline.yml"
	}
}
