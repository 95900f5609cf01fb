package pkg

import (
	"fmt"
	"html"
	"math/rand/v2"
	"strings"
)

const (
	captchaWidth  = 120
	captchaHeight = 40
)

var captchaColors = []string{"#2d3a4b", "#6b3fa0", "#1f7a5c", "#a0522d", "#1e5aa8", "#b03060"}

// CaptchaSVG 把验证码文本渲染成带干扰线的 svg
func CaptchaSVG(text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0,0,%d,%d">`,
		captchaWidth, captchaHeight, captchaWidth, captchaHeight)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="#f0f3f7"/>`)
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, `<path d="M%d %d C%d %d,%d %d,%d %d" stroke="%s" fill="none"/>`,
			rand.IntN(10), rand.IntN(captchaHeight),
			rand.IntN(captchaWidth), rand.IntN(captchaHeight),
			rand.IntN(captchaWidth), rand.IntN(captchaHeight),
			captchaWidth-rand.IntN(10), rand.IntN(captchaHeight),
			pickColor())
	}
	n := len(text)
	if n == 0 {
		b.WriteString(`</svg>`)
		return b.String()
	}
	step := captchaWidth / (n + 1)
	for i, ch := range text {
		x := step*(i+1) - 6 + rand.IntN(6)
		y := 26 + rand.IntN(8)
		rot := rand.IntN(40) - 20
		fmt.Fprintf(&b, `<text x="%d" y="%d" fill="%s" font-size="%d" font-family="monospace" transform="rotate(%d %d %d)">%s</text>`,
			x, y, pickColor(), 22+rand.IntN(6), rot, x, y, html.EscapeString(string(ch)))
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func pickColor() string {
	return captchaColors[rand.IntN(len(captchaColors))]
}
