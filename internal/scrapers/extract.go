package scrapers

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"wb-parser-bot/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// Extract parses a product page and pulls the product card out of it.
// Lookups run in a fixed order and the first missing element aborts extraction.
// Images are the exception: a missing or broken JSON-LD block yields an empty list.
func Extract(rawHTML string, baseURL string) (*model.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPage, err)
	}

	marker := doc.Find("div#productNmId").First()
	if marker.Length() == 0 {
		return nil, ErrInvalidPage
	}

	product := &model.Product{RawHTML: rawHTML}

	id, ok := marker.Attr("content")
	if !ok {
		return nil, fieldNotFound("product_id", "div#productNmId has no content attribute")
	}
	product.ID = id

	if product.Name, err = extractName(doc); err != nil {
		return nil, err
	}
	if product.Price, err = extractPrice(doc); err != nil {
		return nil, err
	}
	if product.Seller, err = extractSeller(doc, baseURL); err != nil {
		return nil, err
	}
	if product.Rating, err = extractRating(doc); err != nil {
		return nil, err
	}
	if product.Characteristics, err = extractCharacteristics(doc); err != nil {
		return nil, err
	}

	product.Images, err = extractImages(doc)
	if err != nil {
		product.Images = []string{}
	}

	return product, nil
}

func extractName(doc *goquery.Document) (string, error) {
	title := doc.Find("h1.product-page__title").First()
	if title.Length() == 0 {
		return "", fieldNotFound("name", "h1.product-page__title")
	}
	return strings.TrimSpace(title.Text()), nil
}

func extractPrice(doc *goquery.Document) (model.Price, error) {
	block := doc.Find("div.product-page__price-block").First()
	if block.Length() == 0 {
		return model.Price{}, fieldNotFound("price", "div.product-page__price-block")
	}

	current := block.Find("ins").First()
	if current.Length() == 0 {
		return model.Price{}, fieldNotFound("price", "no current price")
	}

	price := model.Price{Current: strings.TrimSpace(current.Text())}
	if original := block.Find("del").First(); original.Length() > 0 {
		price.Original = strings.TrimSpace(original.Text())
	}
	return price, nil
}

func extractSeller(doc *goquery.Document, baseURL string) (model.Seller, error) {
	link := doc.Find("a.seller-info__name").First()
	if link.Length() == 0 {
		return model.Seller{}, fieldNotFound("seller", "a.seller-info__name")
	}

	href, ok := link.Attr("href")
	if !ok {
		return model.Seller{}, fieldNotFound("seller", "seller link has no href")
	}

	parts := strings.Split(href, "/")
	return model.Seller{
		ID:   parts[len(parts)-1],
		Name: strings.TrimSpace(link.Text()),
		URL:  resolveURL(baseURL, href),
	}, nil
}

// resolveURL joins href onto baseURL. Hrefs that net/url rejects are joined
// as plain strings so an odd seller link never fails the extraction.
func resolveURL(baseURL, href string) string {
	base, baseErr := url.Parse(baseURL)
	ref, refErr := url.Parse(href)
	if baseErr == nil && refErr == nil {
		return base.ResolveReference(ref).String()
	}

	if strings.Contains(href, "://") {
		return href
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(href, "/")
}

func extractRating(doc *goquery.Document) (model.Rating, error) {
	block := doc.Find("div.product-page__rating").First()
	if block.Length() == 0 {
		return model.Rating{}, fieldNotFound("rating", "div.product-page__rating")
	}

	score := block.Find("span.product-review__rating").First()
	if score.Length() == 0 {
		return model.Rating{}, fieldNotFound("rating", "span.product-review__rating")
	}

	count := block.Find("a.product-review__count").First()
	if count.Length() == 0 {
		return model.Rating{}, fieldNotFound("rating", "a.product-review__count")
	}
	// "123 отзыва" -> "123"
	words := strings.Fields(count.Text())
	if len(words) == 0 {
		return model.Rating{}, fieldNotFound("rating", "empty review count")
	}

	return model.Rating{
		Score:   strings.TrimSpace(score.Text()),
		Reviews: words[0],
	}, nil
}

func extractCharacteristics(doc *goquery.Document) (model.Characteristics, error) {
	table := doc.Find("div.product-params").First()
	if table.Length() == 0 {
		return nil, fieldNotFound("characteristics", "div.product-params")
	}

	chars := model.Characteristics{}
	var rowErr error
	table.Find("div.product-params__row").EachWithBreak(func(i int, row *goquery.Selection) bool {
		label := row.Find("span.product-params__label").First()
		value := row.Find("span.product-params__value").First()
		if label.Length() == 0 || value.Length() == 0 {
			rowErr = fieldNotFound("characteristics", fmt.Sprintf("row %d is incomplete", i+1))
			return false
		}

		key := strings.TrimSpace(label.Text())
		key = strings.TrimSpace(strings.TrimSuffix(key, ":"))
		chars.Set(key, strings.TrimSpace(value.Text()))
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return chars, nil
}

type ldProduct struct {
	Image *[]struct {
		URL *string `json:"url"`
	} `json:"image"`
}

// extractImages reads image URLs from the first JSON-LD script on the page.
func extractImages(doc *goquery.Document) ([]string, error) {
	script := doc.Find(`script[type="application/ld+json"]`).First()
	if script.Length() == 0 {
		return nil, fmt.Errorf("%w: no ld+json script", ErrImageBlockMissing)
	}

	var data ldProduct
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageBlockMissing, err)
	}
	if data.Image == nil {
		return nil, fmt.Errorf("%w: no image list", ErrImageBlockMissing)
	}

	images := make([]string, 0, len(*data.Image))
	for _, img := range *data.Image {
		if img.URL == nil {
			return nil, fmt.Errorf("%w: image without url", ErrImageBlockMissing)
		}
		images = append(images, *img.URL)
	}
	return images, nil
}
