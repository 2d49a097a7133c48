package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"peerprep/interview/internal/agents"
	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/llm"
	_ "peerprep/interview/internal/llm/gemini"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/utils"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var errAborted = errors.New("interview aborted")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full interview in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("name", "n", "", "candidate name")
	runCmd.Flags().StringP("role", "r", "", "role being interviewed for")
	runCmd.Flags().StringP("mode", "m", "turns", "pacing mode: "+strings.Join(models.ValidModesList(), " or "))
	runCmd.Flags().IntP("limit", "l", 3, "main questions (turns mode) or minutes (time mode)")
	runCmd.Flags().String("resume-file", "", "plain-text resume to ground questions on")
	runCmd.Flags().String("channel", "chat", "answer channel: "+strings.Join(models.ValidChannelsList(), " or "))
	runCmd.Flags().String("provider", "gemini", "LLM provider")

	for _, name := range []string{"name", "role", "mode", "limit", "resume-file", "channel", "provider"} {
		viper.BindPFlag(name, runCmd.Flags().Lookup(name))
	}
}

type runOptions struct {
	Name       string
	Role       string
	Mode       string
	Limit      int
	ResumeFile string
	Channel    string
	Provider   string
}

func optionsFromViper() runOptions {
	return runOptions{
		Name:       strings.TrimSpace(viper.GetString("name")),
		Role:       strings.TrimSpace(viper.GetString("role")),
		Mode:       utils.NormalizeMode(viper.GetString("mode")),
		Limit:      viper.GetInt("limit"),
		ResumeFile: viper.GetString("resume-file"),
		Channel:    strings.ToLower(strings.TrimSpace(viper.GetString("channel"))),
		Provider:   viper.GetString("provider"),
	}
}

func (o runOptions) validate() error {
	var errs []error
	if o.Name == "" {
		errs = append(errs, errors.New("--name is required"))
	}
	if o.Role == "" {
		errs = append(errs, errors.New("--role is required"))
	}
	if !models.ValidModes[o.Mode] {
		errs = append(errs, fmt.Errorf("--mode must be one of %v, got %q", models.ValidModesList(), o.Mode))
	}
	if !models.ValidChannels[o.Channel] {
		errs = append(errs, fmt.Errorf("--channel must be one of %v, got %q", models.ValidChannelsList(), o.Channel))
	}
	return errors.Join(errs...)
}

func (o runOptions) startInput() (interview.StartInput, error) {
	in := interview.StartInput{
		Candidate: interview.Candidate{Name: o.Name, Role: o.Role},
		Pacing:    interview.Pacing{Mode: interview.PacingMode(o.Mode), Limit: o.Limit},
		Channel:   interview.Channel(o.Channel),
	}
	if o.ResumeFile != "" {
		data, err := os.ReadFile(o.ResumeFile)
		if err != nil {
			return in, fmt.Errorf("reading resume: %w", err)
		}
		in.Candidate.Resume = string(data)
	}
	return in, nil
}

// run is the main command for the cli.
func run(ctx context.Context, out io.Writer) error {
	logger, err := utils.NewCLILogger(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer logger.Sync()

	opts := optionsFromViper()
	if err := opts.validate(); err != nil {
		return err
	}
	in, err := opts.startInput()
	if err != nil {
		return err
	}

	pm, err := prompts.NewPromptManager()
	if err != nil {
		return fmt.Errorf("loading prompts: %w", err)
	}
	provider, err := llm.NewProvider(opts.Provider)
	if err != nil {
		return fmt.Errorf("initializing %s provider: %w", opts.Provider, err)
	}

	logger.Debug("starting interview",
		zap.String("version", version),
		zap.String("provider", provider.GetProviderName()),
		zap.String("mode", opts.Mode),
		zap.Int("limit", opts.Limit))

	ctrl := interview.NewController(
		store.NewMemoryStore(0),
		agents.NewEvaluator(provider, pm, logger),
		agents.NewQuestionGenerator(provider, pm, logger),
		agents.NewReportWriter(provider, pm, logger),
		logger,
	)

	report, err := runInterview(ctx, ctrl, in, promptAnswer, out)
	if errors.Is(err, errAborted) {
		fmt.Fprintln(out, "Interview aborted.")
		return nil
	}
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	fmt.Fprintln(out, string(pretty))
	return nil
}

// answerFunc asks the candidate for an answer
type answerFunc func(label string) (string, error)

func promptAnswer(label string) (string, error) {
	p := promptui.Prompt{Label: label}
	answer, err := p.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return "", errAborted
	}
	return answer, err
}

// runInterview drives one session from greeting to report. An aborted
// interview is ended before returning.
func runInterview(ctx context.Context, ctrl *interview.Controller, in interview.StartInput, ask answerFunc, out io.Writer) (*interview.Report, error) {
	started, err := ctrl.Start(ctx, in)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Interviewer: %s\n", started.Message)

	seq := started.Question.Seq
	for {
		answer, err := ask(fmt.Sprintf("Answer #%d", seq))
		if err != nil {
			_ = ctrl.End(ctx, started.SessionID)
			return nil, err
		}

		res, err := ctrl.SubmitAnswer(ctx, started.SessionID, interview.AnswerInput{Answer: answer, Seq: seq})
		if err != nil {
			return nil, err
		}
		if res.Filler != "" {
			fmt.Fprintf(out, "Interviewer: %s\n", res.Filler)
		}
		fmt.Fprintf(out, "Interviewer: %s\n", res.Message)

		if res.Ended {
			if res.Report != nil {
				return res.Report, nil
			}
			return ctrl.Report(ctx, started.SessionID)
		}
		if res.RemainingSeconds != nil {
			fmt.Fprintf(out, "(%s remaining)\n", time.Duration(*res.RemainingSeconds)*time.Second)
		}
		seq = res.Question.Seq
	}
}
