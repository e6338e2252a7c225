package scrapers

import (
	"strings"
	"testing"

	"wb-parser-bot/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://www.wildberries.ru"

const imagesBlock = `<script type="application/ld+json">
{"@type": "Product", "image": [{"url": "https://images.wbstatic.net/big/1.jpg"}, {"url": "https://images.wbstatic.net/big/2.jpg"}]}
</script>`

const productPage = `<!DOCTYPE html>
<html>
<head>
<title>Футболка мужская</title>
{{images}}
</head>
<body>
<div id="productNmId" content="12345"></div>
<h1 class="product-page__title">
  Футболка мужская хлопковая
</h1>
<div class="product-page__price-block price-block">
  <ins class="price-block__final-price"> 990 ₽ </ins>
  <del class="price-block__old-price"> 1 990 ₽ </del>
</div>
<div class="seller-info">
  <a class="seller-info__name seller-info__name--link" href="/seller/98765">  ООО «Ромашка» </a>
</div>
<div class="product-page__rating">
  <span class="product-review__rating"> 4.8 </span>
  <a class="product-review__count" href="#comments"> 123 отзыва </a>
</div>
<div class="product-params">
  <div class="product-params__row">
    <span class="product-params__label">Цвет:</span>
    <span class="product-params__value"> черный </span>
  </div>
  <div class="product-params__row">
    <span class="product-params__label">Состав: </span>
    <span class="product-params__value">хлопок 100%</span>
  </div>
  <div class="product-params__row">
    <span class="product-params__label">Страна производства</span>
    <span class="product-params__value">Россия</span>
  </div>
</div>
</body>
</html>`

func fixturePage(images string) string {
	return strings.Replace(productPage, "{{images}}", images, 1)
}

func TestExtract_FullPage(t *testing.T) {
	page := fixturePage(imagesBlock)

	product, err := Extract(page, testBaseURL)
	require.NoError(t, err)

	assert.Equal(t, "12345", product.ID)
	assert.Equal(t, "Футболка мужская хлопковая", product.Name)
	assert.Equal(t, model.Price{Current: "990 ₽", Original: "1 990 ₽"}, product.Price)
	assert.Equal(t, model.Seller{
		ID:   "98765",
		Name: "ООО «Ромашка»",
		URL:  "https://www.wildberries.ru/seller/98765",
	}, product.Seller)
	assert.Equal(t, model.Rating{Score: "4.8", Reviews: "123"}, product.Rating)
	assert.Equal(t, model.Characteristics{
		{Label: "Цвет", Value: "черный"},
		{Label: "Состав", Value: "хлопок 100%"},
		{Label: "Страна производства", Value: "Россия"},
	}, product.Characteristics)
	assert.Equal(t, []string{
		"https://images.wbstatic.net/big/1.jpg",
		"https://images.wbstatic.net/big/2.jpg",
	}, product.Images)
	assert.Equal(t, page, product.RawHTML)
}

func TestExtract_WithoutDiscount(t *testing.T) {
	page := strings.Replace(fixturePage(""), `<del class="price-block__old-price"> 1 990 ₽ </del>`, "", 1)

	product, err := Extract(page, testBaseURL)
	require.NoError(t, err)
	assert.Equal(t, "990 ₽", product.Price.Current)
	assert.False(t, product.Price.HasDiscount())
}

func TestExtract_Images(t *testing.T) {
	tests := []struct {
		name   string
		images string
		want   []string
	}{
		{"no script block", "", []string{}},
		{"malformed json", `<script type="application/ld+json">{"image": [</script>`, []string{}},
		{"no image key", `<script type="application/ld+json">{"name": "x"}</script>`, []string{}},
		{"image is not a list", `<script type="application/ld+json">{"image": "https://a/1.jpg"}</script>`, []string{}},
		{"image without url", `<script type="application/ld+json">{"image": [{"src": "x"}]}</script>`, []string{}},
		{"empty list", `<script type="application/ld+json">{"image": []}</script>`, []string{}},
		{"one image", `<script type="application/ld+json">{"image": [{"url": "https://a/1.jpg"}]}</script>`, []string{"https://a/1.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := Extract(fixturePage(tt.images), testBaseURL)
			require.NoError(t, err)
			assert.NotNil(t, product.Images)
			assert.Equal(t, tt.want, product.Images)
		})
	}
}

func TestExtractImages_ReportsMissingBlock(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fixturePage("")))
	require.NoError(t, err)

	images, err := extractImages(doc)
	assert.ErrorIs(t, err, ErrImageBlockMissing)
	assert.Nil(t, images)
}

func TestExtract_InvalidPage(t *testing.T) {
	page := strings.Replace(fixturePage(imagesBlock), `<div id="productNmId" content="12345"></div>`, "", 1)

	product, err := Extract(page, testBaseURL)
	assert.ErrorIs(t, err, ErrInvalidPage)
	assert.Nil(t, product)
}

func TestExtract_MissingField(t *testing.T) {
	tests := []struct {
		field  string
		remove string
	}{
		{"product_id", `content="12345"`},
		{"name", `<h1 class="product-page__title">`},
		{"price", `<div class="product-page__price-block price-block">`},
		{"price", `<ins class="price-block__final-price"> 990 ₽ </ins>`},
		{"seller", `<a class="seller-info__name seller-info__name--link" href="/seller/98765">  ООО «Ромашка» </a>`},
		{"seller", `href="/seller/98765"`},
		{"rating", `<span class="product-review__rating"> 4.8 </span>`},
		{"rating", ` 123 отзыва `},
		{"rating", `<div class="product-page__rating">`},
		{"rating", `<a class="product-review__count" href="#comments"> 123 отзыва </a>`},
		{"characteristics", `<div class="product-params">`},
		{"characteristics", `<span class="product-params__value">Россия</span>`},
	}

	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.remove, func(t *testing.T) {
			page := fixturePage(imagesBlock)
			require.Contains(t, page, tt.remove)
			page = strings.Replace(page, tt.remove, "", 1)

			product, err := Extract(page, testBaseURL)
			require.Error(t, err)
			assert.Nil(t, product)
			assert.ErrorIs(t, err, ErrFieldNotFound)

			var fieldErr *FieldNotFoundError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestExtract_SellerHrefNotParsable(t *testing.T) {
	page := strings.Replace(fixturePage(""), `href="/seller/98765"`, `href="/seller/100%zz"`, 1)

	product, err := Extract(page, testBaseURL)
	require.NoError(t, err)
	assert.Equal(t, model.Seller{
		ID:   "100%zz",
		Name: "ООО «Ромашка»",
		URL:  "https://www.wildberries.ru/seller/100%zz",
	}, product.Seller)
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base string
		href string
		want string
	}{
		{"https://www.wildberries.ru", "/seller/98765", "https://www.wildberries.ru/seller/98765"},
		{"https://www.wildberries.ru/", "seller/98765", "https://www.wildberries.ru/seller/98765"},
		{"https://www.wildberries.ru", "https://seller.wildberries.ru/98765", "https://seller.wildberries.ru/98765"},
		{"https://www.wildberries.ru/", "/seller/100%zz", "https://www.wildberries.ru/seller/100%zz"},
		{"https://www.wildberries.ru", "https://x.ru/%zz", "https://x.ru/%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveURL(tt.base, tt.href))
		})
	}
}

func TestExtract_DuplicateLabelKeepsFirstPosition(t *testing.T) {
	page := strings.Replace(fixturePage(""),
		`<span class="product-params__label">Страна производства</span>`,
		`<span class="product-params__label">Цвет:</span>`, 1)

	product, err := Extract(page, testBaseURL)
	require.NoError(t, err)
	assert.Equal(t, model.Characteristics{
		{Label: "Цвет", Value: "Россия"},
		{Label: "Состав", Value: "хлопок 100%"},
	}, product.Characteristics)
}

func TestFieldNotFoundError_Message(t *testing.T) {
	err := fieldNotFound("seller", "a.seller-info__name")
	assert.Equal(t, "field not found: seller (a.seller-info__name)", err.Error())

	err = fieldNotFound("name", "")
	assert.Equal(t, "field not found: name", err.Error())
}
