// Command tinci serves Cantonese pronunciation and rhyme tools over
// MCP, for composing lyrics where tone contours must match the melody.
package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"tinci/analyze"
	"tinci/config"
	"tinci/jyutping"
	"tinci/logger"
	"tinci/rhyme"
	"tinci/rhymedata"
	"tinci/server"
)

const serverName = "tinci"
const serverVersion = "1.0.0"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	store, err := rhymedata.Load(cfg.Dataset.Path)
	if err != nil {
		log.Fatal("load rhyme dataset", zap.Error(err))
	}
	log.Info("rhyme dataset loaded",
		zap.Int("finals", len(store.Finals())),
		zap.String("path", cfg.Dataset.Path),
	)

	var rom jyutping.Romanizer
	switch cfg.Romanizer.Provider {
	case "http":
		rom = jyutping.NewHTTPRomanizer(cfg.Romanizer.BaseURL, cfg.Romanizer.Timeout, log)
	default:
		rom = jyutping.NewDictRomanizer(store)
	}

	handler := server.NewHandler(
		analyze.NewAnalyzer(rom),
		rhyme.NewEngine(store),
		store,
		log,
	)

	switch cfg.Server.Transport {
	case "http":
		srv := mcp.NewServer(serverName, serverVersion)
		for _, t := range handler.Tools() {
			srv.RegisterTool(t.Def, t.Handle)
		}
		log.Info("serving mcp over http", zap.String("addr", cfg.Server.Addr()))
		if err := http.ListenAndServe(cfg.Server.Addr(), srv.Handler()); err != nil {
			log.Fatal("http server", zap.Error(err))
		}
	default:
		srv := mcp.NewStdioServer(serverName, serverVersion)
		for _, t := range handler.Tools() {
			srv.RegisterTool(t.Def, t.Handle)
		}
		log.Info("serving mcp over stdio")
		if err := srv.Start(); err != nil {
			log.Fatal("stdio server", zap.Error(err))
		}
	}
}
