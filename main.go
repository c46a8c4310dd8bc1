package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/quill/config"
	"github.com/ByLCY/quill/debug"
	"github.com/ByLCY/quill/dsl"
	"github.com/ByLCY/quill/layout"
	"github.com/ByLCY/quill/shaper"
)

func main() {
	input := flag.String("in", "examples/demo.quill", "标记文件路径")
	configPath := flag.String("config", config.FileName, "配置文件路径")
	debugPath := flag.String("debug", "", "布局调试 JSON 输出路径")
	debugRawUnits := flag.Bool("debug-raw-units", false, "在调试 JSON 中保留属性的原始写法")
	dataJSON := flag.String("data", "", "绑定到标记的 JSON 数据")
	bindJSON := flag.String("bind", "", "求解后再次绑定的 JSON 数据，用于检查增量更新")
	shaperKind := flag.String("shaper", "", "排版后端：sfnt、canvas 或 cell（默认取配置文件）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}
	if *shaperKind != "" {
		cfg.Shaper.Kind = *shaperKind
	}
	if *debugRawUnits {
		cfg.Debug.RawUnits = true
	}
	if cfg.Debug.Log != "" {
		if err := debug.Init(cfg.Debug.Log); err != nil {
			log.Fatalf("打开调试日志失败: %v", err)
		}
		defer debug.Close()
	}

	data, err := parseData(*dataJSON)
	if err != nil {
		log.Fatalf("解析 data JSON 失败: %v", err)
	}
	rebind, err := parseData(*bindJSON)
	if err != nil {
		log.Fatalf("解析 bind JSON 失败: %v", err)
	}

	result, err := run(*input, cfg, data, rebind)
	if err != nil {
		log.Fatalf("布局失败: %v", err)
	}
	printSummary(os.Stdout, result)

	if *debugPath != "" {
		if err := writeDebug(result, *debugPath); err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("已输出调试 JSON：%s\n", *debugPath)
	}
}

func parseData(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// run 串联解析、构建与求解；rebind 不为 nil 时模拟运行期的数据更新。
func run(inputPath string, cfg config.Config, data, rebind any) (*layout.Result, error) {
	doc, err := dsl.ParseFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("解析标记失败: %w", err)
	}

	ts, err := shaper.New(cfg.Shaper.Kind, shaper.Options{
		BaseDir:    filepath.Dir(inputPath),
		Fonts:      cfg.Fonts,
		Kerning:    cfg.Shaper.Kerning,
		CellWidth:  cfg.Shaper.CellWidth,
		CellHeight: cfg.Shaper.CellHeight,
		EastAsian:  cfg.Shaper.EastAsian,
	})
	if err != nil {
		return nil, fmt.Errorf("创建排版后端失败: %w", err)
	}
	text, err := cfg.TextOptions()
	if err != nil {
		return nil, fmt.Errorf("配置错误: %w", err)
	}

	result, err := layout.Build(doc, data, layout.BuildOptions{
		Typesetter: ts,
		Window:     cfg.LayoutWindow(),
		DPI:        cfg.Window.DPI,
		Text:       text,
		Debug:      layout.DebugOptions{RawUnits: cfg.Debug.RawUnits},
	})
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	if rebind != nil {
		result.Bind(rebind)
		result.Solve()
	}
	return result, nil
}

type summary struct {
	nodes, visible, culled, lines int
}

func summarize(s *layout.NodeSnapshot, sum *summary) {
	sum.nodes++
	switch {
	case !s.Visible:
	case s.VisibleRegion:
		sum.visible++
	default:
		sum.culled++
	}
	sum.lines += len(s.Lines)
	for i := range s.Children {
		summarize(&s.Children[i], sum)
	}
}

func printSummary(w io.Writer, result *layout.Result) {
	var sum summary
	summarize(&result.Tree, &sum)
	if result.Meta.Title != "" {
		fmt.Fprintf(w, "文档：%s\n", result.Meta.Title)
	}
	size := result.Tree.LayoutSize
	fmt.Fprintf(w, "窗口：%gx%g\n", size.X, size.Y)
	fmt.Fprintf(w, "节点：%d（可见 %d，被裁剪 %d），文本行：%d\n", sum.nodes, sum.visible, sum.culled, sum.lines)
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
