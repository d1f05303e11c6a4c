package usecase

import (
	"strings"
	"testing"

	"pipelineai/internal/domain/entity"
)

func TestFilePath(t *testing.T) {
	cases := map[entity.Platform]string{
		entity.PlatformGitHubActions:   ".github/workflows/ci-cd.yml",
		entity.PlatformGitLabCI:        ".gitlab-ci.yml",
		entity.PlatformCircleCI:        ".circleci/config.yml",
		entity.PlatformJenkins:         "Jenkinsfile",
		entity.PlatformAWSCodePipeline: "buildspec.yml",
		entity.Platform("travis-ci"):   "pipeline.yml",
		entity.Platform(""):            "pipeline.yml",
	}
	for platform, want := range cases {
		if got := FilePath(platform); got != want {
			t.Errorf("FilePath(%q) = %q, want %q", platform, got, want)
		}
	}
}

func TestFilePathCoversAllPlatforms(t *testing.T) {
	for _, p := range entity.Platforms {
		if FilePath(p) == "pipeline.yml" {
			t.Errorf("platform %s falls through to the default path", p)
		}
	}
}

func TestGenerateTemplateGitHubActions(t *testing.T) {
	cases := []struct {
		language entity.Language
		want     []string
	}{
		{entity.LanguageNodeJS, []string{"actions/setup-node@v4", "run: npm ci", "run: npm test", "name: Setup nodejs"}},
		{entity.LanguagePython, []string{"actions/setup-python@v5", "pip install -r requirements.txt", "run: pytest"}},
		{entity.LanguageGo, []string{"actions/setup-unknown@v1", `echo "Install"`, `echo "Test"`, "name: Setup go"}},
		{entity.LanguageRust, []string{"actions/setup-unknown@v1", `echo "Install"`, `echo "Test"`}},
	}
	for _, tc := range cases {
		t.Run(string(tc.language), func(t *testing.T) {
			got := GenerateTemplate(tc.language, entity.PlatformGitHubActions)
			for _, s := range tc.want {
				if !strings.Contains(got, s) {
					t.Errorf("template missing %q:\n%s", s, got)
				}
			}
			for _, s := range []string{"branches: [ main, develop ]", "branches: [ main ]", "runs-on: ubuntu-latest", "uses: actions/checkout@v4"} {
				if !strings.Contains(got, s) {
					t.Errorf("template missing %q", s)
				}
			}
		})
	}
}

func TestGenerateTemplateGeneric(t *testing.T) {
	for _, p := range []entity.Platform{
		entity.PlatformGitLabCI,
		entity.PlatformCircleCI,
		entity.PlatformJenkins,
		entity.PlatformAWSCodePipeline,
	} {
		got := GenerateTemplate(entity.LanguageRuby, p)
		want := "stages:\n  - build\n  - test\n\nbuild:\n  stage: build\n  script:\n    - echo \"Building ruby...\""
		if got != want {
			t.Errorf("%s: unexpected template:\n%s", p, got)
		}
	}
}

func TestGenerateTemplateDeterministic(t *testing.T) {
	for _, l := range entity.Languages {
		for _, p := range entity.Platforms {
			if GenerateTemplate(l, p) != GenerateTemplate(l, p) {
				t.Fatalf("template for %s/%s is not deterministic", l, p)
			}
		}
	}
}
