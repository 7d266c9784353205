package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dylhunn/dragontoothmg"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"chess-tactics/tactics"
)

func main() {
	fen := flag.String("fen", dragontoothmg.Startpos, "FEN of the position before the move")
	moveStr := flag.String("move", "", "move in coordinate form, e.g. e2e4 or e7e8q (required)")
	evalBefore := flag.Int("eval-before", 0, "evaluation before the move, centipawns, white-positive")
	evalAfter := flag.Int("eval-after", 0, "evaluation after the move, centipawns, white-positive")
	alternatives := flag.Int("alternatives", 0, "number of viable alternatives the move selection considered")
	origins := flag.String("origins", "", "comma-separated origin squares of the last three plies, e.g. g1,b8,f3")
	ply := flag.Int("ply", 0, "half-move number recorded in the output")
	cfgPath := flag.String("config", "", "optional config file with detector thresholds")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *moveStr == "" {
		fmt.Fprintln(os.Stderr, "-move is required")
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
			os.Exit(2)
		}
		logger = l
	}
	defer logger.Sync()

	cfg := tactics.DefaultConfig()
	if *cfgPath != "" {
		viper.SetConfigFile(*cfgPath)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "reading config: %v\n", err)
			os.Exit(2)
		}
		if err := viper.Unmarshal(&cfg); err != nil {
			fmt.Fprintf(os.Stderr, "parsing config: %v\n", err)
			os.Exit(2)
		}
	}

	ctx := &tactics.Context{
		AlternativesCount: *alternatives,
		Ply:               *ply,
	}
	if *origins != "" {
		recent, err := parseOrigins(*origins)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parsing -origins: %v\n", err)
			os.Exit(2)
		}
		ctx.RecentOrigins = recent
	}

	analyzer := tactics.New(cfg, logger)
	record, err := analyzer.AnalyzeMove(*fen, *moveStr,
		tactics.Eval{Total: int32(*evalBefore)},
		tactics.Eval{Total: int32(*evalAfter)}, ctx)
	if err != nil {
		if errors.Is(err, tactics.ErrInvalidInput) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}
	if record == nil {
		fmt.Println("no tactical motif detected")
		return
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func parseOrigins(list string) ([]uint8, error) {
	var out []uint8
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if len(name) != 2 || name[0] < 'a' || name[0] > 'h' || name[1] < '1' || name[1] > '8' {
			return nil, fmt.Errorf("bad square %q", name)
		}
		out = append(out, (name[1]-'1')*8+(name[0]-'a'))
	}
	return out, nil
}
