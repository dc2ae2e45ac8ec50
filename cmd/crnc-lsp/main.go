// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"crnc/internal/lsp"
)

const lsName = "crnc"

var (
	version = "0.1.0"
	handler protocol.Handler
)

func main() {
	verbosity := flag.Int("verbosity", 1, "log verbosity")
	logFile := flag.String("log-file", "", "log to this file instead of stderr")
	flag.Parse()

	// stdout carries the protocol, so logs must not go there.
	var path *string
	if *logFile != "" {
		path = logFile
	}
	commonlog.Configure(*verbosity, path)
	log := commonlog.GetLogger("crnc.lsp.main")

	crnHandler := lsp.NewCRNHandler()

	handler = protocol.Handler{
		Initialize:                     crnHandler.Initialize,
		Initialized:                    crnHandler.Initialized,
		Shutdown:                       crnHandler.Shutdown,
		SetTrace:                       crnHandler.SetTrace,
		TextDocumentDidOpen:            crnHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           crnHandler.TextDocumentDidClose,
		TextDocumentDidChange:          crnHandler.TextDocumentDidChange,
		TextDocumentCompletion:         crnHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: crnHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Infof("starting %s language server %s", lsName, version)

	if err := s.RunStdio(); err != nil {
		log.Errorf("language server stopped: %s", err.Error())
		os.Exit(1)
	}
}
