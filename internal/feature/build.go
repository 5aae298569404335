package feature

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/terminal"
	"github.com/Zachkp/devfolio/internal/view"
)

// BuildTools is the CI/CD dashboard: pipeline config, a replayed run, test
// report and deployments.
type BuildTools struct {
	build   content.Build
	latency time.Duration
}

func NewBuildTools(build content.Build, latency time.Duration) *BuildTools {
	return &BuildTools{build: build, latency: latency}
}

func (b *BuildTools) Name() string    { return "build" }
func (b *BuildTools) Title() string   { return "Build Tools" }
func (b *BuildTools) Summary() string { return "Inspect the CI pipeline and deploy" }

func (b *BuildTools) Enter(sess *terminal.Session) *terminal.Response {
	return b.config(context.Background(), sess, terminal.Command{})
}

func (b *BuildTools) Routes() []terminal.Route {
	return []terminal.Route{
		{Verb: "config", Summary: "Show the pipeline configuration", Handler: b.config},
		{Verb: "pipeline", Aliases: []string{"run"}, Summary: "Run the pipeline", Handler: b.pipeline},
		{Verb: "test", Aliases: []string{"tests"}, Summary: "Show the latest test report", Handler: b.tests},
		{Verb: "envs", Summary: "List deployment environments", Handler: b.envs},
		{Verb: "deploy", Usage: "deploy <env> [--confirm]", Summary: "Deploy to an environment", MinArgs: 1, Handler: b.deploy},
	}
}

func (b *BuildTools) config(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	doc := view.Doc{
		ID:     "build-config",
		Title:  ".github/workflows/ci.yml",
		Blocks: []view.Block{{Code: &view.Code{Language: "yaml", Source: b.build.Config}}},
	}
	return terminal.Open(doc, "Type 'pipeline' to run it.")
}

func (b *BuildTools) pipeline(ctx context.Context, _ *terminal.Session, _ terminal.Command) *terminal.Response {
	if err := wait(ctx, b.latency); err != nil {
		return canceled()
	}

	var blocks []view.Block
	failed := 0
	for _, stage := range b.build.Stages {
		steps := make([]view.Step, len(stage.Steps))
		for i, s := range stage.Steps {
			steps[i] = view.Step{Label: s.Name, Detail: s.Duration, Status: s.Status, Tone: view.ToneFor(s.Status)}
			if s.Status == "failed" {
				failed++
			}
		}
		blocks = append(blocks, view.Block{Heading: stage.Name, Steps: steps})
	}

	status := "passed"
	if failed > 0 {
		status = "failed"
	}
	doc := view.Doc{
		ID:     "build-pipeline",
		Title:  "Pipeline run",
		Badges: []view.Badge{{Text: status, Tone: view.ToneFor(status)}},
		Blocks: blocks,
	}
	resp := terminal.Open(doc, "Running pipeline (%d stages)...", len(b.build.Stages))
	if failed > 0 {
		resp.Error("Pipeline failed: %d steps failed.", failed)
	} else {
		resp.Success("Pipeline passed.")
	}
	return resp
}

func (b *BuildTools) tests(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	rows := make([][]string, len(b.build.Tests))
	var passed, failed, skipped int
	for i, s := range b.build.Tests {
		rows[i] = []string{s.Name, fmt.Sprint(s.Passed), fmt.Sprint(s.Failed), fmt.Sprint(s.Skipped), s.Duration}
		passed += s.Passed
		failed += s.Failed
		skipped += s.Skipped
	}
	doc := view.Doc{
		ID:       "build-tests",
		Title:    "Test report",
		Subtitle: fmt.Sprintf("%d passed, %d failed, %d skipped", passed, failed, skipped),
		Blocks:   []view.Block{{Table: &view.Table{Columns: []string{"package", "passed", "failed", "skipped", "time"}, Rows: rows}}},
	}
	resp := terminal.Open(doc, "%d packages tested.", len(b.build.Tests))
	if failed > 0 {
		resp.Error("%d tests failed.", failed)
	} else {
		resp.Success("%d tests passed.", passed)
	}
	return resp
}

func (b *BuildTools) envs(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	rows := make([][]string, len(b.build.Environments))
	for i, e := range b.build.Environments {
		approval := "no"
		if e.Approval {
			approval = "yes"
		}
		rows[i] = []string{e.Name, e.Version, e.URL, approval}
	}
	doc := view.Doc{
		ID:     "build-envs",
		Title:  "Environments",
		Blocks: []view.Block{{Table: &view.Table{Columns: []string{"env", "version", "url", "approval"}, Rows: rows}}},
	}
	return terminal.Open(doc, "Type 'deploy <env>' to deploy.")
}

func (b *BuildTools) deploy(ctx context.Context, _ *terminal.Session, cmd terminal.Command) *terminal.Response {
	env, ok := find(b.build.Environments, cmd.Arg(0), func(e content.Environment) string { return e.Name })
	if !ok {
		return terminal.Errorf("Environment '%s' not found. Type 'envs' to list environments.", cmd.Arg(0))
	}
	if env.Approval && !hasFlag(cmd.Args[1:], "--confirm") {
		return terminal.Errorf("Deploying to %s requires approval. Run 'deploy %s --confirm'.", env.Name, env.Name)
	}
	if err := wait(ctx, b.latency); err != nil {
		return canceled()
	}

	steps := []view.Step{
		{Label: "build image", Detail: "devfolio:" + env.Version, Status: "passed"},
		{Label: "push image", Detail: "registry.zach.dev/devfolio", Status: "passed"},
		{Label: "rollout", Detail: env.Name, Status: "passed"},
		{Label: "health check", Detail: env.URL + "/healthz", Status: "passed"},
	}
	for i := range steps {
		steps[i].Tone = view.ToneGood
	}
	doc := view.Doc{
		ID:     "deploy:" + env.Name,
		Title:  "Deploy to " + env.Name,
		Badges: []view.Badge{{Text: "deployed", Tone: view.ToneGood}},
		Blocks: []view.Block{{Steps: steps}},
	}
	resp := terminal.Open(doc, "Deploying %s to %s...", env.Version, env.Name)
	resp.Success("Deployed %s to %s: %s", env.Version, env.Name, env.URL)
	return resp
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}
