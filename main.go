package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/decker502/mouserocket/pkg/app"
	"github.com/decker502/mouserocket/pkg/embedded"
	"github.com/decker502/mouserocket/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose   = flag.Bool("verbose", false, "显示详细调试信息")
	level     = flag.String("level", "", "要加载的内嵌关卡ID，如 1-2（默认第一关）")
	levelFile = flag.String("level-file", "", "从文件加载关卡 YAML（编辑关卡时使用）")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源（必须在任何资源加载之前）
	embedded.Init(dataFS)

	a, err := app.NewApp(app.Config{
		Verbose:   *verbose,
		Level:     *level,
		LevelFile: *levelFile,
	})
	if err != nil {
		// 非 verbose 模式下日志已被关闭，错误直接输出到 stderr
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(utils.ScreenWidth*2, utils.ScreenHeight*2)
	ebiten.SetWindowTitle("Mouse Rocket")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
