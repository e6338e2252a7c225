package bot

import (
	"fmt"
	"strings"

	"wb-parser-bot/internal/model"
)

// markdownSpecialChars are the characters Telegram MarkdownV2 requires to be escaped.
const markdownSpecialChars = "_*[]()~`>#+-=|{}.!"

// TruncationNotice follows every raw HTML preview.
const TruncationNotice = "⚠️ HTML обрезан для отображения"

// EscapeMarkdown prefixes every MarkdownV2 special character with a backslash.
// Everything else, including backslashes and multi-byte runes, is copied as is.
func EscapeMarkdown(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(markdownSpecialChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Truncate returns at most limit runes of text.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}

// FormatPreview renders the first limit runes of the page source as a code block.
func FormatPreview(rawHTML string, limit int) string {
	return fmt.Sprintf("`%s...`\n\n%s", EscapeMarkdown(Truncate(rawHTML, limit)), TruncationNotice)
}

// FormatReport renders the product card as a MarkdownV2 message.
func FormatReport(p *model.Product) string {
	var b strings.Builder

	b.WriteString("📦 *Wildberries Parser Report* 📦\n\n")
	fmt.Fprintf(&b, "🆔 *Артикул:* `%s`\n", EscapeMarkdown(p.ID))
	fmt.Fprintf(&b, "📛 *Название:* %s\n", EscapeMarkdown(p.Name))
	fmt.Fprintf(&b, "💰 *Цена:* %s", EscapeMarkdown(p.Price.Current))
	if p.Price.HasDiscount() {
		fmt.Fprintf(&b, " \\(Скидка\\!\\)\n🎯 Старая цена: %s", EscapeMarkdown(p.Price.Original))
	}
	b.WriteString("\n\n")

	b.WriteString("🏪 *Продавец:*\n")
	fmt.Fprintf(&b, "ID: `%s`\n", EscapeMarkdown(p.Seller.ID))
	fmt.Fprintf(&b, "Название: %s\n", EscapeMarkdown(p.Seller.Name))
	fmt.Fprintf(&b, "Ссылка: %s\n\n", EscapeMarkdown(p.Seller.URL))

	fmt.Fprintf(&b, "⭐ *Рейтинг:* %s \\(%s отзывов\\)\n", EscapeMarkdown(p.Rating.Score), EscapeMarkdown(p.Rating.Reviews))
	fmt.Fprintf(&b, "📷 *Изображений:* %d\n", len(p.Images))
	fmt.Fprintf(&b, "📋 *Характеристики:* %d позиций", len(p.Characteristics))

	return b.String()
}
