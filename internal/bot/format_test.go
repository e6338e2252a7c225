package bot

import (
	"strings"
	"testing"
	"unicode/utf8"

	"wb-parser-bot/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Футболка мужская", "Футболка мужская"},
		{"4.8", `4\.8`},
		{"ООО (Ромашка)!", `ООО \(Ромашка\)\!`},
		{"a_b*c[d]e~f`g>h#i+j-k=l|m{n}o", `a\_b\*c\[d\]e\~f\` + "`" + `g\>h\#i\+j\-k\=l\|m\{n\}o`},
		{`C:\path`, `C:\path`},
		{`\.`, `\\.`},
		{"<div class=\"x\">", `<div class\="x"\>`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeMarkdown(tt.in))
		})
	}
}

func TestEscapeMarkdown_EverySpecialCharEscapedOnce(t *testing.T) {
	in := "Цена: 1 990 ₽ (скидка -50%)! " + markdownSpecialChars
	out := EscapeMarkdown(in)

	var unescaped strings.Builder
	runes := []rune(out)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if strings.ContainsRune(markdownSpecialChars, r) {
			t.Fatalf("special char %q at %d is not escaped", r, i)
		}
		if r == '\\' {
			i++
			assert.True(t, strings.ContainsRune(markdownSpecialChars, runes[i]), "backslash before %q", runes[i])
			r = runes[i]
		}
		unescaped.WriteRune(r)
	}
	assert.Equal(t, in, unescaped.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "при", Truncate("привет", 3))
	assert.Equal(t, "привет", Truncate("привет", 6))
	assert.Equal(t, "привет", Truncate("привет", 100))
	assert.Equal(t, "", Truncate("привет", 0))
	assert.Equal(t, "", Truncate("", 10))
}

func TestFormatPreview(t *testing.T) {
	raw := "<html><body>" + strings.Repeat("x", 5000) + "</body></html>"

	preview := FormatPreview(raw, 3500)

	assert.True(t, strings.HasPrefix(preview, "`<html\\><body\\>xxx"))
	assert.True(t, strings.HasSuffix(preview, "...`\n\n"+TruncationNotice))
	assert.Equal(t, 3500, strings.Count(preview, "x")+len("<html><body>"))

	short := FormatPreview("<p>hi</p>", 3500)
	assert.Equal(t, "`<p\\>hi</p\\>...`\n\n"+TruncationNotice, short)
}

func TestFormatPreview_CutsOnRunes(t *testing.T) {
	preview := FormatPreview(strings.Repeat("ж", 10), 4)
	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, "`жжжж...`\n\n"+TruncationNotice, preview)
}

func testProduct() *model.Product {
	return &model.Product{
		ID:    "12345",
		Name:  "Футболка (хлопок)",
		Price: model.Price{Current: "990 ₽", Original: "1 990 ₽"},
		Seller: model.Seller{
			ID:   "98765",
			Name: "ООО «Ромашка»",
			URL:  "https://www.wildberries.ru/seller/98765",
		},
		Rating: model.Rating{Score: "4.8", Reviews: "123"},
		Characteristics: model.Characteristics{
			{Label: "Цвет", Value: "черный"},
			{Label: "Состав", Value: "хлопок"},
		},
		Images:  []string{"https://a/1.jpg"},
		RawHTML: "<html></html>",
	}
}

func TestFormatReport(t *testing.T) {
	report := FormatReport(testProduct())

	assert.Contains(t, report, "📦 *Wildberries Parser Report* 📦")
	assert.Contains(t, report, "🆔 *Артикул:* `12345`")
	assert.Contains(t, report, `📛 *Название:* Футболка \(хлопок\)`)
	assert.Contains(t, report, `💰 *Цена:* 990 ₽ \(Скидка\!\)`)
	assert.Contains(t, report, "🎯 Старая цена: 1 990 ₽")
	assert.Contains(t, report, "ID: `98765`")
	assert.Contains(t, report, "Название: ООО «Ромашка»")
	assert.Contains(t, report, `Ссылка: https://www\.wildberries\.ru/seller/98765`)
	assert.Contains(t, report, `⭐ *Рейтинг:* 4\.8 \(123 отзывов\)`)
	assert.Contains(t, report, "📷 *Изображений:* 1")
	assert.Contains(t, report, "📋 *Характеристики:* 2 позиций")
}

func TestFormatReport_WithoutDiscount(t *testing.T) {
	p := testProduct()
	p.Price.Original = ""

	report := FormatReport(p)

	assert.Contains(t, report, "💰 *Цена:* 990 ₽\n\n🏪")
	assert.NotContains(t, report, "Скидка")
	assert.NotContains(t, report, "Старая цена")
}
