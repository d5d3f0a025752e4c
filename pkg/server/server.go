package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kanavoice/kanavoice/pkg/audio"
	"github.com/kanavoice/kanavoice/pkg/dictionary"
	"github.com/kanavoice/kanavoice/pkg/logger"
	"github.com/kanavoice/kanavoice/pkg/voice"
)

// SayParams are the arguments of the say tool.
type SayParams struct {
	Text string `json:"text" mcp:"読み上げたいテキスト（日本語・英語混在可能）"`
}

// AddParams are the arguments of the add_to_dictionary tool.
type AddParams struct {
	English  string `json:"english" mcp:"英単語、略語、または拡張子。複数の場合はカンマ区切り（例: hdmi,api,.py）"`
	Katakana string `json:"katakana" mcp:"カタカナ読み。複数の場合はカンマ区切り（例: エイチディーエムアイ,エーピーアイ,ドットパイ）"`
}

// RemoveParams are the arguments of the remove_from_dictionary tool.
type RemoveParams struct {
	English string `json:"english" mcp:"削除する英単語。複数の場合はカンマ区切り（例: hdmi,api,.py）"`
}

// ListParams are the arguments of the list_dictionary tool.
type ListParams struct{}

// Server wires the dictionary, converter, synthesizer, and audio player
// behind the four MCP tools and serves them over stdio.
type Server struct {
	store     *dictionary.Store
	converter *dictionary.Converter
	synth     voice.Synthesizer
	player    *audio.Player
	model     string

	mcpServer *mcp.Server
}

// New builds the MCP server and registers the tools. The say tool
// description is generated from the configured voice model so the
// caller knows which character it is speaking as.
func New(store *dictionary.Store, converter *dictionary.Converter, synth voice.Synthesizer, player *audio.Player, model, version string) *Server {
	s := &Server{
		store:     store,
		converter: converter,
		synth:     synth,
		player:    player,
		model:     model,
	}

	impl := &mcp.Implementation{
		Name:    "kanavoice",
		Title:   "Voice Synthesis",
		Version: version,
	}
	s.mcpServer = mcp.NewServer(impl, nil)

	sayDesc := fmt.Sprintf(
		"テキストを%sで読み上げます。\n"+
			"ユーザーにお知らせするときはこのキャラクターになりきって楽しませながら報告しましょう！\n\n"+
			"日本語のテキストを音声合成し、WSL環境では自動的にWindows側で再生されます。\n"+
			"カスタム辞書に登録された英単語は自動的にカタカナに変換されます。",
		voice.DescribeModel(model))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "say",
		Description: sayDesc,
	}, s.handleSay)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "add_to_dictionary",
		Description: "カスタム辞書に新しい英単語とカタカナ読みのペアを登録します。" +
			"HDMIやAPIなどの略語や、.pyのような拡張子も登録できます。" +
			"複数登録する場合はカンマ区切りで指定できます。",
	}, s.handleAdd)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "remove_from_dictionary",
		Description: "カスタム辞書から指定した英単語のエントリを削除します。" +
			"複数削除する場合はカンマ区切りで指定できます。",
	}, s.handleRemove)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_dictionary",
		Description: "カスタム辞書に登録されているすべての英単語と読み方を表示します。",
	}, s.handleList)

	return s
}

// Run serves MCP over stdio until the context ends.
func (s *Server) Run(ctx context.Context) error {
	logger.InfoCF("server", "Serving MCP over stdio", map[string]any{"model": s.model})
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handleSay(ctx context.Context, _ *mcp.CallToolRequest, in SayParams) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.Text) == "" {
		return errorResult("エラー: テキストが空です"), nil, nil
	}

	converted, misses, err := s.converter.Convert(in.Text)
	if err != nil {
		return errorResult("エラー: 辞書の読み込みに失敗しました - " + err.Error()), nil, nil
	}
	logger.DebugCF("server", "Text converted", map[string]any{
		"original":  in.Text,
		"converted": converted,
	})

	clip, err := s.synth.Synthesize(ctx, converted)
	if err != nil {
		logger.ErrorCF("server", "Synthesis failed", map[string]any{"error": err.Error()})
		return errorResult("Error: " + err.Error()), nil, nil
	}

	if err := s.player.Play(ctx, clip); err != nil {
		logger.ErrorCF("server", "Playback failed", map[string]any{"error": err.Error()})
		return errorResult("Error: " + err.Error()), nil, nil
	}

	if len(misses) > 0 {
		return textResult(fmt.Sprintf("✓ (未変換の英単語: %s)", strings.Join(misses, ", "))), nil, nil
	}
	return textResult("✓"), nil, nil
}

func (s *Server) handleAdd(_ context.Context, _ *mcp.CallToolRequest, in AddParams) (*mcp.CallToolResult, any, error) {
	results, err := s.store.AddBatch(in.English, in.Katakana)
	if errors.Is(err, dictionary.ErrArityMismatch) {
		return errorResult("エラー: 英単語の数とカタカナの数が一致しません (" + err.Error() + ")"), nil, nil
	}
	if err != nil {
		return errorResult("エラー: 辞書への登録に失敗しました - " + err.Error()), nil, nil
	}

	if len(results) == 1 {
		r := results[0]
		if !r.OK {
			return errorResult("エラー: 辞書への登録に失敗しました - " + r.Err.Error()), nil, nil
		}
		if r.Updated {
			return textResult(fmt.Sprintf("✓ 辞書を更新しました: %s → %s", r.English, r.Katakana)), nil, nil
		}
		return textResult(fmt.Sprintf("✓ 辞書に登録しました: %s → %s", r.English, r.Katakana)), nil, nil
	}

	var lines []string
	success := 0
	for _, r := range results {
		if r.OK {
			success++
			lines = append(lines, fmt.Sprintf("✓ %s → %s", r.English, r.Katakana))
		} else {
			lines = append(lines, fmt.Sprintf("✗ %s: %s", r.English, r.Err.Error()))
		}
	}
	lines = append(lines, fmt.Sprintf("\n登録完了: %d/%d件成功", success, len(results)))
	return textResult(strings.Join(lines, "\n")), nil, nil
}

func (s *Server) handleRemove(_ context.Context, _ *mcp.CallToolRequest, in RemoveParams) (*mcp.CallToolResult, any, error) {
	results := s.store.RemoveBatch(in.English)

	if len(results) == 1 {
		r := results[0]
		if r.Err != nil {
			return errorResult("エラー: 辞書からの削除に失敗しました - " + r.Err.Error()), nil, nil
		}
		if !r.OK {
			return textResult(fmt.Sprintf("'%s' は辞書に登録されていません", r.English)), nil, nil
		}
		return textResult(fmt.Sprintf("✓ 辞書から削除しました: %s", r.English)), nil, nil
	}

	var lines []string
	success := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			lines = append(lines, fmt.Sprintf("✗ %s: %s", r.English, r.Err.Error()))
		case r.OK:
			success++
			lines = append(lines, fmt.Sprintf("✓ %s を削除", r.English))
		default:
			lines = append(lines, fmt.Sprintf("✗ %s: 登録されていません", r.English))
		}
	}
	lines = append(lines, fmt.Sprintf("\n削除完了: %d/%d件成功", success, len(results)))
	return textResult(strings.Join(lines, "\n")), nil, nil
}

func (s *Server) handleList(_ context.Context, _ *mcp.CallToolRequest, _ ListParams) (*mcp.CallToolResult, any, error) {
	entries, err := s.store.Entries()
	if err != nil {
		return errorResult("エラー: 辞書の読み込みに失敗しました - " + err.Error()), nil, nil
	}
	if len(entries) == 0 {
		return textResult("辞書は空です"), nil, nil
	}

	var b strings.Builder
	b.WriteString("カスタム辞書の内容:\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s → %s\n", e.English, e.Katakana)
	}
	fmt.Fprintf(&b, "\n合計: %d エントリ", len(entries))
	return textResult(b.String()), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
