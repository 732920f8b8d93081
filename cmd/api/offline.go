package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/datacapflow/core/internal/config"
	"github.com/datacapflow/core/internal/models"
	"github.com/datacapflow/core/internal/parser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	inputPath  string
	auditsPath string
	expanded   string
	rounds     int
	pretty     bool
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build the flow graph from a JSON file of allocator rows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		section, err := models.ParseSection(expanded)
		if err != nil {
			return err
		}

		result, err := readAllocators(inputPath)
		if err != nil {
			return err
		}

		graph := parser.BuildGraph(result.Records, section, graphOptions(cfg))
		graph.Expanded = section
		graph.Stats = parser.GraphStats(graph, result)

		return encode(cmd.OutOrStdout(), graph)
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Build the audit-outcome tree from allocator rows and an audit sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := readAllocators(inputPath)
		if err != nil {
			return err
		}

		var sheet *parser.AuditSheet
		if auditsPath != "" {
			data, err := os.ReadFile(auditsPath)
			if err != nil {
				return fmt.Errorf("failed to read audit sheet: %w", err)
			}
			var rows [][]string
			if err := json.Unmarshal(data, &rows); err != nil {
				return fmt.Errorf("failed to decode audit sheet: %w", err)
			}
			if sheet, err = parser.ParseAuditSheet(rows); err != nil {
				return err
			}
		} else {
			sheet = &parser.AuditSheet{}
		}

		n := sheet.Rounds
		if rounds > 0 {
			n = rounds
		}

		records := parser.MergeAudits(result.Records, sheet)
		return encode(cmd.OutOrStdout(), models.AuditTree{
			Rounds: n,
			Root:   parser.BuildAuditTree(records, n),
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{graphCmd, treeCmd} {
		cmd.Flags().StringVarP(&inputPath, "input", "i", "", "JSON file of allocator rows")
		cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the output")
		_ = cmd.MarkFlagRequired("input")
	}
	graphCmd.Flags().StringVarP(&expanded, "expanded", "e", "", "section to expand (Direct-Automatic, Direct-Manual, MPMA)")
	treeCmd.Flags().StringVarP(&auditsPath, "audits", "a", "", "JSON file holding the audit sheet rows")
	treeCmd.Flags().IntVar(&rounds, "rounds", 0, "number of audit rounds (defaults to the sheet)")
}

func readAllocators(path string) (*parser.ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read allocator rows: %w", err)
	}

	result, err := parser.ParseAllocators(data)
	if err != nil {
		return nil, err
	}

	if result.Dropped > 0 {
		logger.Warn("dropped invalid allocator rows", zap.Int("dropped", result.Dropped), zap.String("file", path))
	}
	return result, nil
}

func encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
