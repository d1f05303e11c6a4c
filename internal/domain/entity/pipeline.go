package entity

type Language string

const (
	LanguageNodeJS Language = "nodejs"
	LanguagePython Language = "python"
	LanguageGo     Language = "go"
	LanguageRuby   Language = "ruby"
	LanguageJava   Language = "java"
	LanguageRust   Language = "rust"
	LanguagePHP    Language = "php"
)

const DefaultLanguage = LanguageNodeJS

var Languages = []Language{
	LanguageNodeJS,
	LanguagePython,
	LanguageGo,
	LanguageRuby,
	LanguageJava,
	LanguageRust,
	LanguagePHP,
}

func (l Language) Valid() bool {
	switch l {
	case LanguageNodeJS, LanguagePython, LanguageGo, LanguageRuby, LanguageJava, LanguageRust, LanguagePHP:
		return true
	}
	return false
}

type Platform string

const (
	PlatformGitHubActions   Platform = "github-actions"
	PlatformGitLabCI        Platform = "gitlab-ci"
	PlatformCircleCI        Platform = "circleci"
	PlatformJenkins         Platform = "jenkins"
	PlatformAWSCodePipeline Platform = "aws-codepipeline"
)

const DefaultPlatform = PlatformGitHubActions

var Platforms = []Platform{
	PlatformGitHubActions,
	PlatformGitLabCI,
	PlatformCircleCI,
	PlatformJenkins,
	PlatformAWSCodePipeline,
}

func (p Platform) Valid() bool {
	switch p {
	case PlatformGitHubActions, PlatformGitLabCI, PlatformCircleCI, PlatformJenkins, PlatformAWSCodePipeline:
		return true
	}
	return false
}

// DeploymentTarget only ever shows up as a line in the prompt.
type DeploymentTarget string

const (
	DeployAWSECS      DeploymentTarget = "aws-ecs"
	DeployAWSLambda   DeploymentTarget = "aws-lambda"
	DeployAWSS3       DeploymentTarget = "aws-s3"
	DeployVercel      DeploymentTarget = "vercel"
	DeployNetlify     DeploymentTarget = "netlify"
	DeployHeroku      DeploymentTarget = "heroku"
	DeployGCPCloudRun DeploymentTarget = "gcp-cloud-run"
	DeployKubernetes  DeploymentTarget = "kubernetes"
	DeployDockerHub   DeploymentTarget = "docker-hub"
	DeployNPM         DeploymentTarget = "npm"
)

func (d DeploymentTarget) Valid() bool {
	switch d {
	case DeployAWSECS, DeployAWSLambda, DeployAWSS3, DeployVercel, DeployNetlify,
		DeployHeroku, DeployGCPCloudRun, DeployKubernetes, DeployDockerHub, DeployNPM:
		return true
	}
	return false
}

type PipelineRequest struct {
	Description      string           `json:"description" validate:"required"`
	Language         Language         `json:"language,omitempty" validate:"omitempty,oneof=nodejs python go ruby java rust php"`
	Platform         Platform         `json:"platform,omitempty" validate:"omitempty,oneof=github-actions gitlab-ci circleci jenkins aws-codepipeline"`
	DeploymentTarget DeploymentTarget `json:"deploymentTarget,omitempty" validate:"omitempty,oneof=aws-ecs aws-lambda aws-s3 vercel netlify heroku gcp-cloud-run kubernetes docker-hub npm"`
	// Features is accepted but not read by any generation logic.
	Features []string `json:"features,omitempty"`
}

// ResolvedLanguage returns the request language or DefaultLanguage when unset.
func (r PipelineRequest) ResolvedLanguage() Language {
	if r.Language == "" {
		return DefaultLanguage
	}
	return r.Language
}

// ResolvedPlatform returns the request platform or DefaultPlatform when unset.
func (r PipelineRequest) ResolvedPlatform() Platform {
	if r.Platform == "" {
		return DefaultPlatform
	}
	return r.Platform
}

type ResultSource string

const (
	SourceLLM      ResultSource = "llm"
	SourceFallback ResultSource = "fallback"
)

type PipelineResult struct {
	Success  bool         `json:"success"`
	Content  string       `json:"content"`
	FilePath string       `json:"filePath,omitempty"`
	Platform Platform     `json:"platform"`
	Language Language     `json:"language"`
	Source   ResultSource `json:"source"`
	Error    string       `json:"error,omitempty"`
}
