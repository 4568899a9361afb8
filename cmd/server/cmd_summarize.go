package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/datatypes"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/analysis"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/document"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/domain"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/export"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/fetcher"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/pipeline"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/summarizer"
)

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <pdf path | url | text file | ->",
		Short: "Summarize a single document without recording it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			levelFlag, _ := cmd.Flags().GetString("level")
			level, err := summarizer.ParseLevel(levelFlag)
			if err != nil {
				return err
			}
			formatFlag, _ := cmd.Flags().GetString("format")
			jsonOut, _ := cmd.Flags().GetBool("json")
			var format export.Format
			if jsonOut || strings.EqualFold(formatFlag, "json") {
				format = export.FormatJSON
			} else if format, err = export.ParseSummaryFormat(formatFlag); err != nil {
				return err
			}

			ctx := cmd.Context()
			weights := pipeline.WeightSource(pipeline.DefaultWeights())
			if stored, _ := cmd.Flags().GetBool("stored-weights"); stored {
				a, err := newApp(ctx, cfg, log)
				if err != nil {
					return err
				}
				defer a.Close()
				weights = a.controller
			}

			proc := document.NewProcessor(log, cfg.Fetch.MaxBytes)
			fetch := fetcher.New(fetcher.Config{
				Timeout:   cfg.Fetch.Timeout,
				MaxBytes:  cfg.Fetch.MaxBytes,
				UserAgent: cfg.Fetch.UserAgent,
			})
			svc := pipeline.NewService(proc, fetch, nil, weights, pipeline.Options{}, log)

			asText, _ := cmd.Flags().GetBool("text")
			doc, err := loadDocument(ctx, cmd.InOrStdin(), args[0], asText, proc, fetch)
			if err != nil {
				return err
			}
			res, err := svc.Preview(ctx, doc, level)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), format, res)
		},
	}
	cmd.Flags().String("level", string(summarizer.LevelStudent), "Summary level: student or professor")
	cmd.Flags().String("format", "text", "Output format: text, markdown, html or json")
	cmd.Flags().Bool("text", false, "Treat the input as plain text instead of a PDF")
	cmd.Flags().Bool("stored-weights", false, "Use the latest learned weights from the configured database")
	return cmd
}

// loadDocument reads the input named by arg; "-" reads stdin
func loadDocument(ctx context.Context, stdin io.Reader, arg string, asText bool, proc *document.Processor, fetch *fetcher.Fetcher) (*domain.Document, error) {
	if asText {
		var raw []byte
		var err error
		title := "stdin"
		if arg == "-" {
			raw, err = io.ReadAll(stdin)
		} else {
			raw, err = os.ReadFile(arg)
			title = strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}
		return textDocument(title, string(raw)), nil
	}

	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		content, err := fetch.FetchPDF(ctx, arg)
		if err != nil {
			return nil, err
		}
		return proc.Process(ctx, content, document.Source{Kind: domain.SourceURL, URL: arg})
	}

	f, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", arg, err)
	}
	defer f.Close()
	return proc.ProcessUpload(ctx, filepath.Base(arg), f)
}

func textDocument(title, raw string) *domain.Document {
	text := analysis.Normalize(raw)
	sentences := analysis.SplitSentences(text)
	return &domain.Document{
		ID:         uuid.New().String(),
		Title:      title,
		SourceKind: domain.SourceUpload,
		Text:       text,
		ByteSize:   int64(len(raw)),
		Metadata: datatypes.NewJSONType(domain.DocumentMetadata{
			WordCount:     len(strings.Fields(text)),
			SentenceCount: len(sentences),
			Language:      analysis.DetectLanguage(text),
			DocumentType:  analysis.DetectDocumentType(text),
		}),
		ExtractedAt: time.Now().UTC(),
	}
}

func writeSummary(w io.Writer, format export.Format, res *pipeline.Result) error {
	switch format {
	case export.FormatJSON:
		return writeJSON(w, res)
	case export.FormatMarkdown:
		_, err := io.WriteString(w, export.SummaryMarkdown(res.Document, res.Summary))
		return err
	case export.FormatHTML:
		page, err := export.SummaryHTML(res.Document, res.Summary)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, page)
		return err
	default:
		_, err := io.WriteString(w, export.SummaryText(res.Document, res.Summary))
		return err
	}
}
