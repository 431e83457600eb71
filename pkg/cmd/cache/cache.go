package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/config"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/setup"
	utilcache "github.com/mpapenbr/iracelog-gap-analysis/pkg/utils/cache"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/utils/cache/resultcache"
)

func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "manages stored analysis results",
	}
	cmd.AddCommand(newListCmd(), newDeleteCmd(), newPurgeCmd())
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "lists the stored results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s store.Store) error {
				entries, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				return writeList(cmd.OutOrStdout(), entries, describe(cmd.Context(), s))
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>...",
		Short: "deletes stored results by key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s store.Store) error {
				c := reportCache(s)
				for _, key := range args {
					if err := c.Invalidate(cmd.Context(), key); err != nil {
						return fmt.Errorf("delete %s: %w", key, err)
					}
					log.Info("result deleted", log.String("key", key))
				}
				return nil
			})
		},
	}
}

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "deletes all stored results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s store.Store) error {
				return reportCache(s).InvalidateAll(cmd.Context())
			})
		},
	}
}

func reportCache(s store.Store) utilcache.Cache[string, model.Report] {
	return resultcache.New[model.Report](
		resultcache.WithStore[model.Report](s),
		resultcache.WithLogger[model.Report](log.Default().Named("cache")))
}

func withStore(fn func(s store.Store) error) error {
	s, nc, err := setup.Open(config.CacheFromFlags(), log.Default())
	if err != nil {
		return err
	}
	defer func() {
		s.Close()
		if nc != nil {
			nc.Close()
		}
	}()
	return fn(s)
}

// describe returns the compared laps of a stored report as "A vs B".
// Entries that cannot be read are shown as "?".
func describe(ctx context.Context, s store.Store) func(key string) string {
	return func(key string) string {
		e, err := s.Get(ctx, key)
		if err != nil {
			log.Debug("entry not readable", log.String("key", key), log.ErrorField(err))
			return "?"
		}
		var rep struct {
			ComparisonInfo struct {
				A model.SeriesID `json:"a"`
				B model.SeriesID `json:"b"`
			} `json:"comparison_info"`
		}
		if err := json.Unmarshal(e.Data, &rep); err != nil {
			log.Debug("entry not decodable", log.String("key", key), log.ErrorField(err))
			return "?"
		}
		return fmt.Sprintf("%s vs %s", rep.ComparisonInfo.A, rep.ComparisonInfo.B)
	}
}

//nolint:errcheck // errors are reported by Flush
func writeList(w io.Writer, entries []*store.Entry, laps func(key string) string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tLAPS\tCREATED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			e.Key, laps(e.Key), e.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}
