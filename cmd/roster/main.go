/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tomoncle/roster"
	"github.com/tomoncle/roster/config"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/types"
)

var configFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "roster",
		Short:         "Member and team search over a relational database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.AddCommand(newMigrateCmd(), newSeedCmd(), newSearchCmd())
	return rootCmd
}

// open loads the configuration and connects the global database. With
// migrate set, migrations run whatever the startup flag says.
func open(ctx context.Context, migrate bool) (*database.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	cfg.ApplyLogging()
	roster.RegisterModels()

	dbCfg := cfg.ConfigLoader()
	if migrate {
		dbCfg.DataMigrateConfig.EnableMigrateOnStartup = true
	}
	if _, err := database.InitDB(ctx, dbCfg); err != nil {
		return nil, err
	}
	return dbCfg, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dbCfg, err := open(ctx, true)
			if err != nil {
				return err
			}
			defer func() { _ = database.CloseDB() }()

			applied, err := database.NewMigrationManager(database.GetDB(), database.GetLogger(), dbCfg).GetAppliedMigrations(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), applied)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Execute the SQL seed files for the configured environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := open(ctx, false); err != nil {
				return err
			}
			defer func() { _ = database.CloseDB() }()
			return database.InitData(ctx)
		},
	}
}

type searchFlags struct {
	username string
	teamName string
	ageGoe   int
	ageLoe   int
	offset   int
	page     int
	size     int
	sorts    []string
	mode     string
	unpaged  bool
	members  bool
}

func newSearchCmd() *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search members by username, team name and age range",
		Example: `  roster search --team TeamB --age-goe 20 --age-loe 45
  roster search --sort username,desc --offset 1 --size 2 --mode simple`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cond := conditionFromFlags(cmd, f)
			ctx := cmd.Context()
			if _, err := open(ctx, false); err != nil {
				return err
			}
			defer func() { _ = database.CloseDB() }()

			svc := roster.NewMemberService()
			out := cmd.OutOrStdout()
			switch {
			case f.members:
				members, err := svc.SearchMembers(ctx, cond)
				if err != nil {
					return err
				}
				return writeJSON(out, members)
			case f.unpaged:
				rows, err := svc.Search(ctx, cond)
				if err != nil {
					return err
				}
				return writeJSON(out, rows)
			}

			req, mode, err := pageFromFlags(cmd, f)
			if err != nil {
				return err
			}
			page, err := svc.SearchPage(ctx, cond, req, mode)
			if err != nil {
				return err
			}
			return writeJSON(out, pageView(page))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.username, "username", "", "exact username")
	flags.StringVar(&f.teamName, "team", "", "exact team name")
	flags.IntVar(&f.ageGoe, "age-goe", 0, "minimum age, inclusive")
	flags.IntVar(&f.ageLoe, "age-loe", 0, "maximum age, inclusive")
	flags.IntVar(&f.offset, "offset", 0, "row offset")
	flags.IntVar(&f.page, "page", 0, "zero-based page number, overrides --offset")
	flags.IntVar(&f.size, "size", 20, "page size")
	flags.StringArrayVar(&f.sorts, "sort", nil, "sort key as property[,asc|desc]; repeatable")
	flags.StringVar(&f.mode, "mode", types.PageModeOptimized.Name(), "page mode: simple or optimized")
	flags.BoolVar(&f.unpaged, "all", false, "return every matching row without paging")
	flags.BoolVar(&f.members, "members", false, "return member entities with their team instead of rows")
	return cmd
}

// conditionFromFlags leaves criteria nil unless their flag was given, so
// "--username ''" searches for an empty username.
func conditionFromFlags(cmd *cobra.Command, f searchFlags) model.SearchCondition {
	var cond model.SearchCondition
	flags := cmd.Flags()
	if flags.Changed("username") {
		cond.Username = types.Ptr(f.username)
	}
	if flags.Changed("team") {
		cond.TeamName = types.Ptr(f.teamName)
	}
	if flags.Changed("age-goe") {
		cond.AgeGoe = types.Ptr(f.ageGoe)
	}
	if flags.Changed("age-loe") {
		cond.AgeLoe = types.Ptr(f.ageLoe)
	}
	return cond
}

func pageFromFlags(cmd *cobra.Command, f searchFlags) (types.PageRequest, types.PageMode, error) {
	mode, ok := types.ParsePageMode(f.mode)
	if !ok {
		return types.PageRequest{}, mode, fmt.Errorf("%w: unknown page mode %q", types.ErrInvalidArgument, f.mode)
	}
	orders := make([]types.Order, 0, len(f.sorts))
	for _, raw := range f.sorts {
		order, err := types.ParseOrder(raw)
		if err != nil {
			return types.PageRequest{}, mode, err
		}
		orders = append(orders, order)
	}
	if cmd.Flags().Changed("page") {
		return types.OfPage(f.page, f.size, orders...), mode, nil
	}
	return types.NewPageRequest(f.offset, f.size, orders...), mode, nil
}

type pageJSON struct {
	Content          []*model.MemberTeam `json:"content"`
	TotalElements    int                 `json:"totalElements"`
	TotalPages       int                 `json:"totalPages"`
	Number           int                 `json:"number"`
	Size             int                 `json:"size"`
	NumberOfElements int                 `json:"numberOfElements"`
	First            bool                `json:"first"`
	Last             bool                `json:"last"`
}

func pageView(p *types.Page[model.MemberTeam]) pageJSON {
	return pageJSON{
		Content:          p.Content,
		TotalElements:    p.Total,
		TotalPages:       p.TotalPages(),
		Number:           p.Number(),
		Size:             p.Size(),
		NumberOfElements: p.NumberOfElements(),
		First:            p.IsFirst(),
		Last:             p.IsLast(),
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
