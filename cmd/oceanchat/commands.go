package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/oceanwatch-assistant/internal/adapter/kafka"
	"github.com/couchcryptid/oceanwatch-assistant/internal/assistant"
	"github.com/couchcryptid/oceanwatch-assistant/internal/config"
	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/feed"
	"github.com/couchcryptid/oceanwatch-assistant/internal/gateway"
	"github.com/couchcryptid/oceanwatch-assistant/internal/lexicon"
	"github.com/couchcryptid/oceanwatch-assistant/internal/observability"
	"github.com/couchcryptid/oceanwatch-assistant/internal/pipeline"
	"github.com/couchcryptid/oceanwatch-assistant/internal/registry"
)

type engineOptions struct {
	gatewayMode string
	timeout     time.Duration
	threshold   float64
	seed        uint64
	verbose     bool
}

func (o *engineOptions) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.gatewayMode, "gateway", gateway.ModeSimulated, "external data source: simulated or off")
	f.DurationVar(&o.timeout, "timeout", assistant.DefaultGatewayTimeout, "bound on live data lookups")
	f.Float64Var(&o.threshold, "threshold", registry.DefaultAcceptanceThreshold, "minimum domain score to accept")
	f.Uint64Var(&o.seed, "seed", 0, "seed for reply selection; 0 picks randomly")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log routing decisions to stderr")
}

func (o *engineOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *engineOptions) engine(cmd *cobra.Command) (*assistant.Engine, error) {
	if o.gatewayMode == gateway.ModeHTTP {
		return nil, fmt.Errorf("gateway mode %q is only available in the service", o.gatewayMode)
	}
	if o.threshold <= 0 || o.threshold >= 1 {
		return nil, fmt.Errorf("--threshold must be between 0 and 1 (exclusive), got %v", o.threshold)
	}
	logger := o.logger(cmd.ErrOrStderr())
	metrics := observability.NewUnregisteredMetrics()

	gw, err := gateway.Build(o.gatewayMode, "", o.timeout, logger, metrics)
	if err != nil {
		return nil, err
	}
	cfg := assistant.Config{
		AcceptanceThreshold: o.threshold,
		GatewayTimeout:      o.timeout,
		Enrich:              true,
	}
	if o.seed != 0 {
		cfg.Picker = assistant.NewSeededPicker(o.seed)
	}
	return assistant.New(registry.Default(), gw, cfg, logger, metrics), nil
}

func newRootCmd() *cobra.Command {
	opts := &engineOptions{}
	root := &cobra.Command{
		Use:           "oceanchat",
		Short:         "Chat with the OceanWatch ocean-safety assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(root)

	root.AddCommand(newChatCmd(opts), newAskCmd(opts), newClassifyCmd(opts), newFeedCmd(opts))
	return root
}

func newChatCmd(opts *engineOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Start an interactive conversation on stdin. The conversation keeps its
topic between turns. Say "bye", "exit" or "quit" to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), engine, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runChat(ctx context.Context, engine *assistant.Engine, in io.Reader, out io.Writer) error {
	dc := domain.NewDialogueContext()
	fmt.Fprintln(out, "🌊 OceanWatch assistant. Ask about ocean hazards, beaches or coastal safety.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		reply := engine.ProcessInput(ctx, dc, scanner.Text())
		fmt.Fprintln(out, reply.Text)
		if reply.Intent == domain.IntentFarewell || ctx.Err() != nil {
			return nil
		}
	}
}

func newAskCmd(opts *engineOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			reply := engine.ProcessInput(cmd.Context(), domain.NewDialogueContext(), strings.Join(args, " "))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), reply)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the reply with its routing labels as JSON")
	return cmd
}

type classification struct {
	assistant.Classification
	Analysis lexicon.Analysis `json:"analysis"`
}

func newClassifyCmd(opts *engineOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>",
		Short: "Score a text against every topic and label its sentiment and hazard",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			return writeJSON(cmd.OutOrStdout(), classification{
				Classification: engine.Classify(text),
				Analysis:       lexicon.Analyze(text),
			})
		},
	}
}

func newFeedCmd(opts *engineOptions) *cobra.Command {
	var (
		count   int
		label   bool
		summary bool
		brokers string
		topic   string
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Generate simulated social-media posts",
		Long: `Generate simulated coastal social-media posts as JSON lines on stdout,
or publish them to a Kafka topic with --brokers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			seed := opts.seed
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			gen := feed.NewGenerator(domain.Clock(), seed)

			if brokers != "" {
				cfg := &config.Config{KafkaBrokers: strings.Split(brokers, ","), KafkaSourceTopic: topic}
				w := kafkaadapter.NewPostWriter(cfg, opts.logger(cmd.ErrOrStderr()))
				defer w.Close()
				for range count {
					if err := w.PublishPost(cmd.Context(), gen.Next()); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "published %d posts to %s\n", count, topic)
				return nil
			}

			engine, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			tracker := lexicon.NewTracker(count)
			out := cmd.OutOrStdout()
			for range count {
				post := gen.Next()
				if !label && !summary {
					if err := writeJSON(out, post); err != nil {
						return err
					}
					continue
				}
				labelled := pipeline.Label(engine, post)
				tracker.Add(labelled.Sample())
				if label {
					if err := writeJSON(out, labelled); err != nil {
						return err
					}
				}
			}
			if summary {
				return writeJSON(out, tracker.Summary(domain.Now()))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&count, "count", "n", 10, "number of posts")
	f.BoolVar(&label, "label", false, "attach sentiment, hazard and topic labels")
	f.BoolVar(&summary, "summary", false, "print an analytics summary of the generated posts")
	f.StringVar(&brokers, "brokers", "", "comma-separated Kafka brokers to publish to")
	f.StringVar(&topic, "topic", "raw-social-posts", "Kafka topic for --brokers")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
