package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pitchlab/pitchcoach/internal/config"
	"github.com/pitchlab/pitchcoach/internal/conversation"
	"github.com/pitchlab/pitchcoach/internal/generate"
	"github.com/pitchlab/pitchcoach/internal/llm"
	"github.com/pitchlab/pitchcoach/internal/persona"
	"github.com/pitchlab/pitchcoach/internal/progress"
	"github.com/pitchlab/pitchcoach/internal/scoring"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "pitchcoach",
	Short: "Practice PR pitches against simulated journalist personas",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnv()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pitchcoach %s\n", Version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Install the built-in starter personas into the store",
	RunE:  runInit,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available journalist personas",
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <persona-id>",
	Short: "Show a persona's profile and response patterns",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <persona-id>",
	Short: "Score a pitch against a persona and get improvement suggestions",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluate,
}

var chatCmd = &cobra.Command{
	Use:   "chat <persona-id>",
	Short: "Start an interactive practice conversation with a persona",
	Args:  cobra.ExactArgs(1),
	RunE:  runChat,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new journalist persona",
	RunE:  runGenerate,
}

var (
	flagPersonaDir string
	flagStore      string
	flagDBPath     string

	flagPitch    string
	flagFile     string
	flagCritique bool

	flagName        string
	flagPublication string
	flagResearch    bool
	flagDepth       string
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(generateCmd)

	rootCmd.PersistentFlags().StringVar(&flagPersonaDir, "personas", "journalists", "Directory holding persona JSON files")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "file", "Persona store backend: file or sqlite")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "pitchcoach.db", "SQLite database path (with --store sqlite)")

	evaluateCmd.Flags().StringVarP(&flagPitch, "pitch", "p", "", "Pitch text to evaluate")
	evaluateCmd.Flags().StringVarP(&flagFile, "file", "f", "", "Read the pitch from a file")
	evaluateCmd.Flags().BoolVarP(&flagCritique, "critique", "c", false, "Add a language-model critique (costs API tokens)")

	generateCmd.Flags().StringVar(&flagName, "name", "", "Journalist name (required)")
	generateCmd.Flags().StringVar(&flagPublication, "publication", "", "Publication (optional)")
	generateCmd.Flags().BoolVar(&flagResearch, "research", false, "Use the web-research strategy instead of template generation")
	generateCmd.Flags().StringVar(&flagDepth, "depth", "standard", "Research depth: quick, standard, comprehensive")
}

func Execute() error {
	return rootCmd.Execute()
}

func openStore() (persona.Store, func(), error) {
	switch flagStore {
	case "file":
		return persona.NewFileStore(flagPersonaDir), func() {}, nil
	case "sqlite":
		s, err := persona.NewSQLiteStore(flagDBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q: choose file or sqlite", flagStore)
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	for _, p := range persona.Defaults() {
		if err := store.Put(cmd.Context(), p.ID, p); err != nil {
			return err
		}
		fmt.Printf("  Installed %s (%s, %s)\n", p.ID, p.Name, p.Publication)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ids, err := store.ListIDs(cmd.Context())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No personas found. Run 'pitchcoach init' to install the starter personas.")
		return nil
	}
	for _, id := range ids {
		p, err := store.Get(cmd.Context(), id)
		if err != nil {
			fmt.Printf("  %-32s (unreadable: %v)\n", id, err)
			continue
		}
		fmt.Printf("  %-32s %s — %s (%s)\n", id, p.Name, p.Publication, p.Beat)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s — %s\n", p.Name, p.Publication)
	fmt.Printf("  Beat: %s\n", p.Beat)
	fmt.Printf("  Base response rate: %.0f%%\n", p.BaseResponseRate*100)
	fmt.Printf("  Keyword triggers: %s\n", strings.Join(p.KeywordTriggers, ", "))
	fmt.Println("\n  Response factors:")
	printFactor := func(name string, f *float64) {
		if v, ok := persona.Factor(f); ok {
			fmt.Printf("    %-18s %.2fx\n", name, v)
		}
	}
	printFactor("exclusive", p.ResponseFactors.Timing.Exclusive)
	printFactor("breaking_news", p.ResponseFactors.Timing.BreakingNews)
	printFactor("embargo", p.ResponseFactors.Timing.Embargo)
	printFactor("follow_up", p.ResponseFactors.Timing.FollowUp)
	printFactor("exact_beat", p.ResponseFactors.Relevance.ExactBeat)
	printFactor("adjacent_beat", p.ResponseFactors.Relevance.AdjacentBeat)
	printFactor("off_beat", p.ResponseFactors.Relevance.OffBeat)
	printFactor("data_driven", p.ResponseFactors.Quality.DataDriven)
	printFactor("executive_access", p.ResponseFactors.Quality.ExecutiveAccess)
	printFactor("generic_pitch", p.ResponseFactors.Quality.GenericPitch)
	fmt.Println()
	return nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	pitch, err := readPitch()
	if err != nil {
		return err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	eval := scoring.Evaluate(pitch, p)

	fmt.Printf("\n  Response likelihood: %.0f%%\n", eval.Likelihood*100)
	if len(eval.PositiveFactors) > 0 {
		fmt.Println("\n  Strengths:")
		for _, f := range eval.PositiveFactors {
			fmt.Printf("    + %s\n", f)
		}
	}
	if len(eval.MatchedKeywords) > 0 {
		fmt.Printf("\n  Matched keywords: %s\n", strings.Join(eval.MatchedKeywords, ", "))
	}
	if len(eval.Suggestions) > 0 {
		fmt.Println("\n  Suggestions:")
		for _, s := range eval.Suggestions {
			fmt.Printf("    - %s\n", s)
		}
	}

	if flagCritique {
		if err := config.RequireAPIKey(); err != nil {
			return err
		}
		model := config.ModelFor(config.TaskEvaluation)
		feedback, cost := scoring.Critique(cmd.Context(), llm.NewClaude(model), model, pitch, p, eval)
		fmt.Printf("\n  Critique (cost $%.4f):\n\n%s\n", cost, indent(feedback, "  "))
	}
	fmt.Println()
	return nil
}

func readPitch() (string, error) {
	switch {
	case flagPitch != "" && flagFile != "":
		return "", fmt.Errorf("--pitch and --file are mutually exclusive")
	case flagPitch != "":
		return flagPitch, nil
	case flagFile != "":
		data, err := os.ReadFile(flagFile)
		if err != nil {
			return "", fmt.Errorf("read pitch file: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("either --pitch (-p) or --file (-f) is required")
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if flagName == "" {
		return fmt.Errorf("--name is required")
	}
	if err := config.RequireAPIKey(); err != nil {
		return err
	}

	validDepths := map[string]bool{"quick": true, "standard": true, "comprehensive": true}
	if !validDepths[flagDepth] {
		return fmt.Errorf("invalid depth %q: must be quick, standard, or comprehensive", flagDepth)
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	model := config.ModelFor(config.TaskPersonaGeneration)
	completer := llm.NewClaude(model)

	var gen generate.Generator
	if flagResearch {
		gen = generate.NewResearchGenerator(generate.SimulatedSearcher{}, completer, model)
	} else {
		gen = generate.NewTemplateGenerator(completer, model)
	}

	renderer := progress.NewLineRenderer(os.Stdout)
	p, cost, err := gen.Generate(cmd.Context(), generate.Request{
		Name:        flagName,
		Publication: flagPublication,
		Depth:       generate.Depth(flagDepth),
		OnProgress:  renderer.Handle,
	})
	if err != nil {
		return fmt.Errorf("generate persona: %w", err)
	}

	if err := store.Put(cmd.Context(), p.ID, p); err != nil {
		return err
	}
	fmt.Printf("\n  Saved persona %s (%s at %s, beat: %s)\n", p.ID, p.Name, p.Publication, p.Beat)
	fmt.Printf("  Generation cost: $%.4f\n\n", cost)
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	if err := config.RequireAPIKey(); err != nil {
		return err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	model := config.ModelFor(config.TaskConversation)
	sess := conversation.New(p, llm.NewClaude(model), model)
	return runChatTUI(sess)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
