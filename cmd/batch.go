package main

import (
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/maru-digital/assess-cli/internal/model"
)

var (
	batchCSVPath     string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Audit many websites from a URL list",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cfg)
		if err != nil {
			return err
		}

		urls, err := readURLList(batchCSVPath)
		if err != nil {
			return err
		}

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrent
		}

		results := make([]*model.WebsiteAudit, len(urls))
		var mu sync.Mutex
		failed := 0

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(concurrency)
		for i, url := range urls {
			i, url := i, url
			g.Go(func() error {
				result, err := p.auditor.Audit(ctx, url)
				if err != nil {
					// Bad URLs in a batch are skipped, not fatal.
					zap.L().Warn("batch: skipping url", zap.String("url", url), zap.Error(err))
					mu.Lock()
					failed++
					mu.Unlock()
					return nil
				}
				results[i] = result
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		kept := make([]*model.WebsiteAudit, 0, len(results))
		for _, r := range results {
			if r != nil {
				kept = append(kept, r)
			}
		}

		zap.L().Info("batch complete",
			zap.Int("audited", len(kept)),
			zap.Int("skipped", failed),
		)
		return printJSON(kept)
	},
}

// readURLList reads one URL per line, tolerating a leading header row and
// extra CSV columns.
func readURLList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read url list")
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		field := strings.TrimSpace(strings.Split(line, ",")[0])
		if field == "" || strings.EqualFold(field, "url") || strings.EqualFold(field, "website") {
			continue
		}
		urls = append(urls, field)
	}
	if len(urls) == 0 {
		return nil, eris.New("url list is empty")
	}
	return urls, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchCSVPath, "csv", "", "path to a file with one URL per line (required)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent audits (default from config)")
	batchCmd.MarkFlagRequired("csv") //nolint:errcheck
	rootCmd.AddCommand(batchCmd)
}
