package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/hoover/internal/config"
	dombatch "github.com/kailas-cloud/hoover/internal/domain/batch"
	cryptonymrepo "github.com/kailas-cloud/hoover/internal/repository/cryptonym"
	ingestuc "github.com/kailas-cloud/hoover/internal/usecase/ingest"
	"github.com/kailas-cloud/hoover/internal/version"
)

// session is an open connection for one command run.
type session struct {
	svc            *ingestuc.Service
	cryptonymsFile string
	close          func()
}

type opener func(ctx context.Context, env string) (*session, error)

func newRootCmd(open opener) *cobra.Command {
	var env string

	root := &cobra.Command{
		Use:   "hoover-ingest",
		Short: "Load the document archive and cryptonyms into the search database",
		Long: `hoover-ingest prepares the database the hoover bot searches.

  index       create the document index and store enrichment JSON files
  cryptonyms  replace the stored cryptonym dictionary from a JSON file`,
		Version:      version.String(),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&env, "env", config.GetEnv(), "config environment (config/<env>.yaml)")

	root.AddCommand(newIndexCmd(open, &env), newCryptonymsCmd(open, &env))
	return root
}

func newIndexCmd(open opener, env *string) *cobra.Command {
	var (
		dir      string
		workers  int
		batch    int
		recreate bool
	)
	cmd := &cobra.Command{
		Use:   "index --dir <path>",
		Short: "Store every *.json enrichment file under a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd.Context(), *env)
			if err != nil {
				return err
			}
			defer s.close()

			summary, err := s.svc.WithWorkers(workers).WithBatchSize(batch).IndexDir(cmd.Context(), dir, recreate)
			printSummary(cmd, summary)
			if err != nil {
				return err
			}
			if n := summary.Count(dombatch.StatusError); n > 0 {
				return fmt.Errorf("%d documents failed", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory of enrichment JSON files")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel file readers (default: half the CPUs)")
	cmd.Flags().IntVar(&batch, "batch", ingestuc.DefaultBatchSize, "documents per pipelined write")
	cmd.Flags().BoolVar(&recreate, "recreate", false, "drop and recreate the index first")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func newCryptonymsCmd(open opener, env *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "cryptonyms [--file cia-cryptonyms.json]",
		Short: "Replace the stored cryptonym dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd.Context(), *env)
			if err != nil {
				return err
			}
			defer s.close()

			if file == "" {
				file = s.cryptonymsFile
			}
			entries, err := cryptonymrepo.LoadFile(file)
			if err != nil {
				return err
			}
			n, err := s.svc.LoadCryptonyms(cmd.Context(), entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d cryptonyms from %s\n", n, file)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "cryptonym JSON file (default: bot.cryptonyms_file)")
	return cmd
}

func printSummary(cmd *cobra.Command, s ingestuc.Summary) {
	w := cmd.OutOrStdout()
	if s.IndexCreated {
		fmt.Fprintln(w, "index created")
	}
	for _, r := range s.Results {
		if r.Status() == dombatch.StatusError {
			fmt.Fprintf(w, "failed  %s: %v\n", r.Path(), r.Err())
		}
	}
	fmt.Fprintf(w, "indexed %d, skipped %d, failed %d\n",
		s.Count(dombatch.StatusOK),
		s.Count(dombatch.StatusSkipped),
		s.Count(dombatch.StatusError),
	)
}
