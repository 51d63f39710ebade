package ui

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/fr4nk3nst1ner/langsalary/internal/models"
	"github.com/fr4nk3nst1ner/langsalary/internal/utils"
	"github.com/pterm/pterm"
)

const bannerText = `
██╗      █████╗ ███╗   ██╗ ██████╗    ███████╗ █████╗ ██╗      █████╗ ██████╗ ██╗   ██╗
██║     ██╔══██╗████╗  ██║██╔════╝    ██╔════╝██╔══██╗██║     ██╔══██╗██╔══██╗╚██╗ ██╔╝
██║     ███████║██╔██╗ ██║██║  ███╗   ███████╗███████║██║     ███████║██████╔╝ ╚████╔╝
██║     ██╔══██║██║╚██╗██║██║   ██║   ╚════██║██╔══██║██║     ██╔══██║██╔══██╗  ╚██╔╝
███████╗██║  ██║██║ ╚████║╚██████╔╝   ███████║██║  ██║███████╗██║  ██║██║  ██║   ██║
╚══════╝╚═╝  ╚═╝╚═╝  ╚═══╝ ╚═════╝    ╚══════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
 programming language salaries: HeadHunter + SuperJob
`

// ColorizeText applies a random color fade to the input text
func ColorizeText(text string) string {
	random := rand.New(rand.NewSource(time.Now().UnixNano()))

	startColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))
	firstPoint := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))

	chars := strings.Split(text, "")
	half := len(chars) / 2
	if half == 0 {
		half = 1
	}

	var b strings.Builder
	for i, ch := range chars {
		b.WriteString(startColor.Fade(0, float32(len(chars)), float32(i%half), firstPoint).Sprint(ch))
	}
	return b.String()
}

// PrintBanner displays the application banner
func PrintBanner(w io.Writer, silence bool) {
	if silence {
		return
	}
	fmt.Fprintln(w, ColorizeText(bannerText))
}

// ColorizeSalary colors a monthly ruble average by how high it is
func ColorizeSalary(avg models.AverageSalary) string {
	formatted := utils.FormatSalary(avg)
	if !avg.Known {
		return pterm.Gray(formatted)
	}

	switch {
	case avg.Value >= 300000:
		return pterm.Green(formatted)
	case avg.Value >= 200000:
		return pterm.LightGreen(formatted)
	case avg.Value >= 100000:
		return pterm.Yellow(formatted)
	default:
		return pterm.Red(formatted)
	}
}
