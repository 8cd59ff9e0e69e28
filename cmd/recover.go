/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
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
	"fmt"
	"os"
	"strconv"
)

import (
	"github.com/olekukonko/tablewriter"

	"github.com/spf13/cobra"
)

import (
	"github.com/txkit-db/txkit/pkg/config"
	"github.com/txkit-db/txkit/pkg/constants"
	"github.com/txkit-db/txkit/pkg/proto"
	"github.com/txkit-db/txkit/pkg/resource"
	"github.com/txkit-db/txkit/pkg/transaction"
	"github.com/txkit-db/txkit/pkg/util/log"
)

const _keyDataSource = "datasource"

func init() {
	cmd := &cobra.Command{
		Use:     "recover",
		Short:   "inspect and resolve prepared xa branches",
		Example: "txkit recover list -c config.yaml",
	}
	cmd.PersistentFlags().
		StringP(constants.ConfigPathKey, "c", os.Getenv(constants.EnvConfigPath), "configuration file path")
	cmd.PersistentFlags().
		StringP(_keyDataSource, "d", "", "data source name, defaults to the first configured one")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "list branches parked in the prepared state",
			RunE:  runList,
		},
		&cobra.Command{
			Use:   "commit <xid>",
			Short: "commit a prepared branch by xid",
			Args:  cobra.ExactArgs(1),
			RunE:  runCommit,
		},
		&cobra.Command{
			Use:   "rollback <xid>",
			Short: "roll back a prepared branch by xid",
			Args:  cobra.ExactArgs(1),
			RunE:  runRollback,
		},
		&cobra.Command{
			Use:   "cleanup <prefix>",
			Short: "roll back every prepared branch whose xid starts with prefix",
			Args:  cobra.ExactArgs(1),
			RunE:  runCleanup,
		},
	)

	rootCommand.AddCommand(cmd)
}

func newParticipant(cmd *cobra.Command) (*transaction.Participant, func(), error) {
	configPath, err := cmd.Flags().GetString(constants.ConfigPathKey)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Logging != nil {
		log.Init(cfg.Logging)
	}

	name, err := cmd.Flags().GetString(_keyDataSource)
	if err != nil {
		return nil, nil, err
	}
	dsCfg, err := cfg.DataSource(name)
	if err != nil {
		return nil, nil, err
	}
	if err := resource.InitDataSourceManager(cfg.DataSources); err != nil {
		return nil, nil, err
	}
	manager := resource.GetDataSourceManager()
	ds, err := manager.Get(dsCfg.Name)
	if err != nil {
		_ = manager.Close()
		return nil, nil, err
	}
	log.Debugf("recover commands run against data source %s", ds.Name())
	return transaction.NewParticipant(ds), func() { _ = manager.Close() }, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	participant, done, err := newParticipant(cmd)
	if err != nil {
		return err
	}
	defer done()

	infos, err := participant.ListPrepared(cmd.Context())
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"FORMAT ID", "GTRID LEN", "BQUAL LEN", "XID", "DECODED"})
	for i := range infos {
		table.Append([]string{
			strconv.FormatInt(infos[i].FormatID, 10),
			strconv.FormatInt(infos[i].GtridLength, 10),
			strconv.FormatInt(infos[i].BqualLength, 10),
			infos[i].Xid,
			strconv.FormatBool(infos[i].DecodeOK),
		})
	}
	table.Render()
	return nil
}

func runCommit(cmd *cobra.Command, args []string) error {
	participant, done, err := newParticipant(cmd)
	if err != nil {
		return err
	}
	defer done()

	xid, err := proto.NewXid(args[0])
	if err != nil {
		return err
	}
	if err := participant.CommitByXid(cmd.Context(), xid); err != nil {
		return err
	}
	fmt.Printf("branch %s committed\n", xid)
	return nil
}

func runRollback(cmd *cobra.Command, args []string) error {
	participant, done, err := newParticipant(cmd)
	if err != nil {
		return err
	}
	defer done()

	xid, err := proto.NewXid(args[0])
	if err != nil {
		return err
	}
	if err := participant.RollbackByXid(cmd.Context(), xid); err != nil {
		return err
	}
	fmt.Printf("branch %s rolled back\n", xid)
	return nil
}

func runCleanup(cmd *cobra.Command, args []string) error {
	participant, done, err := newParticipant(cmd)
	if err != nil {
		return err
	}
	defer done()

	cleaned, err := participant.CleanupStale(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("cleaned %d stale branches\n", cleaned)
	return nil
}
