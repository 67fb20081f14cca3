/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sidetree-node anchors DID operations in batches and resolves DID documents.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/sidetree-node/cmd/sidetree-node/startcmd"
)

var logger = log.New("sidetree-node")

// Version is embedded during build.
var Version string

func main() {
	rootCmd := &cobra.Command{
		Use: "sidetree-node",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	rootCmd.AddCommand(startcmd.GetStartCmd(
		startcmd.WithVersion(Version),
		startcmd.WithServerVersion(os.Getenv("SIDETREE_NODE_SERVER_VERSION")),
	))

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Failed to run sidetree-node", log.WithError(err))
	}
}
