package components

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

const bannerArt = `╔═╗╔═╗╦═╗╔═╗╔═╗╦═╗  ╔═╗ ╦ ╦╔═╗╔═╗╔╦╗
║  ╠═╣╠╦╝║╣ ║╣ ╠╦╝  ║═╬╗║ ║║╣ ╚═╗ ║
╚═╝╩ ╩╩╚═╚═╝╚═╝╩╚═  ╚═╝╚╚═╝╚═╝╚═╝ ╩`

const bannerCompact = "C A R E E R · Q U E S T"

// BannerWidth is the column width of the full banner art.
const BannerWidth = 36

// Banner renders the game's title. Below BannerWidth+4 columns, or when
// compact is set, it falls back to spaced letters.
func Banner(width int, compact bool, fg color.Color) string {
	style := lipgloss.NewStyle().Foreground(fg).Bold(true)
	if compact || width < BannerWidth+4 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
