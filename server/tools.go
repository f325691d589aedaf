// Package server exposes the analysis and rhyme engines as MCP tools.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"tinci/analyze"
	"tinci/rhyme"
	"tinci/rhymedata"
	"tinci/tone"
)

const (
	defaultRhymeLimit = 50
	defaultFinalLimit = 100
)

// Tool pairs an MCP tool definition with its handler so either
// transport can register it.
type Tool struct {
	Def    *mcp.Tool
	Handle func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Handler owns the tool handlers and their shared collaborators.
type Handler struct {
	analyzer *analyze.Analyzer
	engine   *rhyme.Engine
	store    *rhymedata.Store
	log      *zap.Logger
}

func NewHandler(analyzer *analyze.Analyzer, engine *rhyme.Engine, store *rhymedata.Store, log *zap.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		engine:   engine,
		store:    store,
		log:      log.Named("tools"),
	}
}

// Tools returns every tool the server offers, in registration order.
func (h *Handler) Tools() []Tool {
	return []Tool{
		{
			Def: mcp.NewTool("get_jyutping",
				mcp.WithDescription("Convert Cantonese text to Jyutping romanization. "+
					"Returns the Jyutping pronunciation for each character in the input text. "+
					"Jyutping is the standard romanization system for Cantonese, where each "+
					"syllable ends with a tone number from 1-6 (with 7-9 for entering tones)."),
				mcp.WithString("text", mcp.Required(), mcp.Description("Cantonese text to convert (Traditional or Simplified Chinese)")),
			),
			Handle: h.getJyutping,
		},
		{
			Def: mcp.NewTool("get_tone_pattern",
				mcp.WithDescription("Analyze the tonal pattern of Cantonese text for lyrics writing. "+
					"Converts each character's tone to the 1056 or 0243 system used to match "+
					"syllables with melody notes. The 1056 system labels high tones (1,2,7) as 1, "+
					"low falling (4) as 0, mid tones (3,5,8) as 5 and low tones (6,9) as 6. "+
					"The 0243 system uses 3, 0, 4 and 2 for the same groups."),
				mcp.WithString("text", mcp.Required(), mcp.Description("Cantonese text to analyze")),
				mcp.WithString("system", mcp.Description("Tonal classification system"), mcp.Default("0243"), mcp.Enum("1056", "0243")),
			),
			Handle: h.getTonePattern,
		},
		{
			Def: mcp.NewTool("get_rhyming_characters",
				mcp.WithDescription("Find characters that rhyme with the input character for lyrics composition. "+
					"Returns characters sharing the same Jyutping final as the input character. "+
					"target_tone finds rhymes with one specific tone (1-9) and target_group finds "+
					"rhymes in one contour group; both override tone_filter."),
				mcp.WithString("character", mcp.Required(), mcp.Description("A single Chinese character to find rhymes for")),
				mcp.WithString("tone_filter", mcp.Description("How to filter results by tone: all, same tone only, or same contour group"), mcp.Default("all"), mcp.Enum("all", "same", "group")),
				mcp.WithString("system", mcp.Description("Tonal classification system for group filtering and tone display"), mcp.Default("0243"), mcp.Enum("1056", "0243")),
				mcp.WithNumber("limit", mcp.Description("Maximum number of rhyming characters to return (default 50)")),
				mcp.WithNumber("target_tone", mcp.Description("Find rhyming characters with this specific tone (1-9), overrides tone_filter")),
				mcp.WithString("target_group", mcp.Description("Find rhyming characters in this contour group, overrides tone_filter")),
			),
			Handle: h.getRhymingCharacters,
		},
		{
			Def: mcp.NewTool("get_characters_by_final",
				mcp.WithDescription("List all characters stored under one Jyutping final, optionally filtered to a single tone."),
				mcp.WithString("final", mcp.Required(), mcp.Description("The Jyutping final to look up, e.g. oi, ung, yun")),
				mcp.WithNumber("tone_filter", mcp.Description("Optional tone number (1-9) to filter by")),
				mcp.WithNumber("limit", mcp.Description("Maximum number of characters to return (default 100)")),
			),
			Handle: h.getCharactersByFinal,
		},
		{
			Def: mcp.NewTool("get_available_finals",
				mcp.WithDescription("List every Jyutping final available in the rhyme dataset, sorted alphabetically."),
			),
			Handle: h.listFinals,
		},
	}
}

func parseArgs(req *mcp.CallToolRequest, dst any) error {
	if req == nil || req.Params.Arguments == nil {
		return fmt.Errorf("missing arguments")
	}
	data, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return fmt.Errorf("marshal arguments: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal arguments: %w", err)
	}
	return nil
}

func textJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewTextResult(string(data)), nil
}

type jyutpingArgs struct {
	Text string `json:"text"`
}

func (h *Handler) getJyutping(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args jyutpingArgs
	if err := parseArgs(req, &args); err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	text := norm.NFC.String(args.Text)
	if text == "" {
		return mcp.NewErrorResult("text must not be empty"), nil
	}

	h.log.Debug("get_jyutping", zap.String("text", text))

	result, err := h.analyzer.Romanize(ctx, text)
	if err != nil {
		return nil, err
	}
	return textJSON(result)
}

type tonePatternArgs struct {
	Text   string `json:"text"`
	System string `json:"system"`
}

func (h *Handler) getTonePattern(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args tonePatternArgs
	if err := parseArgs(req, &args); err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	text := norm.NFC.String(args.Text)
	if text == "" {
		return mcp.NewErrorResult("text must not be empty"), nil
	}
	scheme := tone.Scheme(args.System)
	if scheme == "" {
		scheme = tone.DefaultScheme
	}
	if !scheme.IsValid() {
		return mcp.NewErrorResult(fmt.Sprintf("unknown tone system %q, expected 1056 or 0243", args.System)), nil
	}

	h.log.Debug("get_tone_pattern", zap.String("text", text), zap.String("system", scheme.String()))

	result, err := h.analyzer.Tones(ctx, text, scheme)
	if err != nil {
		return nil, err
	}
	return textJSON(result)
}

type rhymeArgs struct {
	Character   string  `json:"character"`
	ToneFilter  string  `json:"tone_filter"`
	System      string  `json:"system"`
	Limit       *int    `json:"limit"`
	TargetTone  *int    `json:"target_tone"`
	TargetGroup *string `json:"target_group"`
}

// unknownCharacterPayload mirrors the result shape clients already
// parse for a character absent from the dataset.
type unknownCharacterPayload struct {
	Error string `json:"error"`
	Input struct {
		Character string `json:"character"`
	} `json:"input"`
	Rhymes []struct{} `json:"rhymes"`
}

func (h *Handler) getRhymingCharacters(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args rhymeArgs
	if err := parseArgs(req, &args); err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	character := norm.NFC.String(args.Character)
	if utf8.RuneCountInString(character) != 1 {
		return mcp.NewErrorResult("character must be exactly one Chinese character"), nil
	}
	mode := rhyme.FilterMode(args.ToneFilter)
	if mode == "" {
		mode = rhyme.DefaultFilter
	}
	if !mode.IsValid() {
		return mcp.NewErrorResult(fmt.Sprintf("unknown tone_filter %q, expected all, same or group", args.ToneFilter)), nil
	}
	scheme := tone.Scheme(args.System)
	if scheme == "" {
		scheme = tone.DefaultScheme
	}
	if !scheme.IsValid() {
		return mcp.NewErrorResult(fmt.Sprintf("unknown tone system %q, expected 1056 or 0243", args.System)), nil
	}
	if args.TargetTone != nil && (*args.TargetTone < 1 || *args.TargetTone > 9) {
		return mcp.NewErrorResult("target_tone must be between 1 and 9"), nil
	}
	limit := defaultRhymeLimit
	if args.Limit != nil {
		limit = *args.Limit
	}

	h.log.Debug("get_rhyming_characters",
		zap.String("character", character),
		zap.String("tone_filter", mode.String()),
		zap.String("system", scheme.String()),
		zap.Int("limit", limit),
	)

	result, err := h.engine.Find(rhyme.Query{
		Character:   character,
		Mode:        mode,
		Scheme:      scheme,
		Limit:       limit,
		TargetTone:  args.TargetTone,
		TargetGroup: args.TargetGroup,
	})
	if err != nil {
		var unknown *rhyme.UnknownCharacterError
		if errors.As(err, &unknown) {
			payload := unknownCharacterPayload{
				Error:  fmt.Sprintf("Character '%s' not found in rhyme database", unknown.Character),
				Rhymes: []struct{}{},
			}
			payload.Input.Character = unknown.Character
			return textJSON(payload)
		}
		return nil, err
	}
	return textJSON(result)
}

type finalArgs struct {
	Final      string `json:"final"`
	ToneFilter *int   `json:"tone_filter"`
	Limit      *int   `json:"limit"`
}

// unknownFinalPayload tells the caller which finals it can ask for
// instead of a bare error.
type unknownFinalPayload struct {
	Error           string   `json:"error"`
	AvailableFinals []string `json:"available_finals"`
}

func (h *Handler) getCharactersByFinal(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args finalArgs
	if err := parseArgs(req, &args); err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	if args.Final == "" {
		return mcp.NewErrorResult("final must not be empty"), nil
	}
	if args.ToneFilter != nil && (*args.ToneFilter < 1 || *args.ToneFilter > 9) {
		return mcp.NewErrorResult("tone_filter must be between 1 and 9"), nil
	}
	limit := defaultFinalLimit
	if args.Limit != nil {
		limit = *args.Limit
	}

	h.log.Debug("get_characters_by_final", zap.String("final", args.Final), zap.Int("limit", limit))

	result, err := h.store.CharactersByFinal(args.Final, args.ToneFilter, limit)
	if err != nil {
		var unknown *rhymedata.UnknownFinalError
		if errors.As(err, &unknown) {
			return textJSON(unknownFinalPayload{
				Error:           fmt.Sprintf("Final '%s' not found in rhyme database", unknown.Final),
				AvailableFinals: unknown.AvailableFinals,
			})
		}
		return nil, err
	}
	return textJSON(result)
}

type finalsPayload struct {
	Finals []string `json:"finals"`
	Count  int      `json:"count"`
}

func (h *Handler) listFinals(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	finals := h.store.Finals()

	h.log.Debug("list_finals", zap.Int("count", len(finals)))

	return textJSON(finalsPayload{Finals: finals, Count: len(finals)})
}
