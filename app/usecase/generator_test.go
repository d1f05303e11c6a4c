package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"pipelineai/internal/domain/entity"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
	last     entity.CompletionRequest
}

func (f *fakeLLM) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	f.calls++
	f.last = req
	return f.response, f.err
}

type fakeRecorder struct {
	err     error
	records []entity.PipelineResult
}

func (f *fakeRecorder) Record(ctx context.Context, req entity.PipelineRequest, res entity.PipelineResult) (*entity.Generation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.records = append(f.records, res)
	return entity.NewGeneration(req, res), nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateUsesLLMContent(t *testing.T) {
	fake := &fakeLLM{response: "X"}
	g := NewPipelineGenerator(fake, quietLogger(), WithModel("gpt-4o"))

	req := entity.PipelineRequest{
		Description: "build and test",
		Language:    entity.LanguagePython,
		Platform:    entity.PlatformGitLabCI,
	}
	res := g.Generate(context.Background(), req)

	want := entity.PipelineResult{
		Success:  true,
		Content:  "X",
		FilePath: ".gitlab-ci.yml",
		Platform: entity.PlatformGitLabCI,
		Language: entity.LanguagePython,
		Source:   entity.SourceLLM,
	}
	if res != want {
		t.Fatalf("unexpected result:\n got %+v\nwant %+v", res, want)
	}

	if fake.calls != 1 {
		t.Fatalf("expected one completion call, got %d", fake.calls)
	}
	if fake.last.System != "You are a DevOps expert. Generate ONLY valid YAML." {
		t.Fatalf("unexpected system prompt: %q", fake.last.System)
	}
	if fake.last.Temperature != 0.7 || fake.last.MaxTokens != 4000 || fake.last.Model != "gpt-4o" {
		t.Fatalf("unexpected request params: %+v", fake.last)
	}
	if fake.last.User != BuildPrompt(req) {
		t.Fatalf("unexpected user prompt: %q", fake.last.User)
	}
}

func TestGenerateResolvesDefaults(t *testing.T) {
	fake := &fakeLLM{response: "name: CI"}
	g := NewPipelineGenerator(fake, quietLogger())

	res := g.Generate(context.Background(), entity.PipelineRequest{Description: "api"})
	if res.Language != entity.LanguageNodeJS || res.Platform != entity.PlatformGitHubActions {
		t.Fatalf("expected defaults, got %s/%s", res.Language, res.Platform)
	}
	if res.FilePath != ".github/workflows/ci-cd.yml" {
		t.Fatalf("unexpected file path: %s", res.FilePath)
	}
	if !strings.HasPrefix(fake.last.User, "Generate a CI/CD pipeline for github-actions.\nLanguage: nodejs\n") {
		t.Fatalf("prompt does not use defaults: %q", fake.last.User)
	}
}

func TestGenerateEmptyChoicesIsEmptyContent(t *testing.T) {
	g := NewPipelineGenerator(&fakeLLM{response: ""}, quietLogger())

	res := g.Generate(context.Background(), entity.PipelineRequest{Description: "api"})
	if !res.Success || res.Content != "" || res.Source != entity.SourceLLM {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestGenerateFallsBackOnError(t *testing.T) {
	cases := []struct {
		name     string
		language entity.Language
		platform entity.Platform
	}{
		{"defaults", "", ""},
		{"github python", entity.LanguagePython, entity.PlatformGitHubActions},
		{"github go", entity.LanguageGo, entity.PlatformGitHubActions},
		{"gitlab ruby", entity.LanguageRuby, entity.PlatformGitLabCI},
		{"jenkins java", entity.LanguageJava, entity.PlatformJenkins},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewPipelineGenerator(&fakeLLM{err: errors.New("401 unauthorized")}, quietLogger())
			req := entity.PipelineRequest{Description: "svc", Language: tc.language, Platform: tc.platform}

			res := g.Generate(context.Background(), req)

			lang, plat := req.ResolvedLanguage(), req.ResolvedPlatform()
			want := entity.PipelineResult{
				Success:  true,
				Content:  GenerateTemplate(lang, plat),
				FilePath: FilePath(plat),
				Platform: plat,
				Language: lang,
				Source:   entity.SourceFallback,
			}
			if res != want {
				t.Fatalf("unexpected fallback:\n got %+v\nwant %+v", res, want)
			}
		})
	}
}

func TestGenerateFallbackOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewPipelineGenerator(&fakeLLM{err: context.Canceled}, quietLogger())
	res := g.Generate(ctx, entity.PipelineRequest{Description: "svc"})
	if !res.Success || res.Source != entity.SourceFallback || res.Error != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestFeaturesAreInert(t *testing.T) {
	base := entity.PipelineRequest{Description: "svc", Platform: entity.PlatformCircleCI}
	withFeatures := base
	withFeatures.Features = []string{"caching", "matrix builds"}

	for _, llmErr := range []error{nil, errors.New("down")} {
		a := &fakeLLM{response: "out", err: llmErr}
		b := &fakeLLM{response: "out", err: llmErr}

		resA := NewPipelineGenerator(a, quietLogger()).Generate(context.Background(), base)
		resB := NewPipelineGenerator(b, quietLogger()).Generate(context.Background(), withFeatures)
		if resA != resB {
			t.Fatalf("features changed result: %+v vs %+v", resA, resB)
		}
		if a.last.User != b.last.User {
			t.Fatalf("features changed prompt: %q vs %q", a.last.User, b.last.User)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	cases := []struct {
		name string
		req  entity.PipelineRequest
		want string
	}{
		{
			name: "with deployment target",
			req: entity.PipelineRequest{
				Description:      "build a flask app",
				Language:         entity.LanguagePython,
				Platform:         entity.PlatformGitLabCI,
				DeploymentTarget: entity.DeployHeroku,
			},
			want: "Generate a CI/CD pipeline for gitlab-ci.\nLanguage: python\nDescription: build a flask app\nDeployment Target: heroku\n\nOutput ONLY valid YAML, no explanations.",
		},
		{
			name: "defaults",
			req:  entity.PipelineRequest{Description: "rest api"},
			want: "Generate a CI/CD pipeline for github-actions.\nLanguage: nodejs\nDescription: rest api\n\nOutput ONLY valid YAML, no explanations.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildPrompt(tc.req); got != tc.want {
				t.Fatalf("unexpected prompt:\n got %q\nwant %q", got, tc.want)
			}
		})
	}
}

func TestGenerateRecordsResult(t *testing.T) {
	rec := &fakeRecorder{}
	g := NewPipelineGenerator(&fakeLLM{err: errors.New("timeout")}, quietLogger(), WithRecorder(rec))

	res := g.Generate(context.Background(), entity.PipelineRequest{Description: "svc"})
	if len(rec.records) != 1 || rec.records[0] != res {
		t.Fatalf("expected result to be recorded once, got %+v", rec.records)
	}
}

func TestGenerateIgnoresRecorderFailure(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("db down")}
	g := NewPipelineGenerator(&fakeLLM{response: "X"}, quietLogger(), WithRecorder(rec))

	res := g.Generate(context.Background(), entity.PipelineRequest{Description: "svc"})
	if !res.Success || res.Content != "X" {
		t.Fatalf("recorder failure leaked into result: %+v", res)
	}
}
