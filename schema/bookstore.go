package schema

// Entity pairs the schema a create body must satisfy with the one for
// partial updates. Neither accepts the identifier field.
type Entity struct {
	Create map[string]any
	Update map[string]any
}

func text(maxLen int) map[string]any {
	return map[string]any{"type": "string", "minLength": 1, "maxLength": maxLen}
}

func longText() map[string]any {
	return map[string]any{"type": "string"}
}

func date() map[string]any {
	return map[string]any{"type": "string", "format": "date"}
}

func ref() map[string]any {
	return map[string]any{"type": "integer", "minimum": 1}
}

func count() map[string]any {
	return map[string]any{"type": "integer", "minimum": 1}
}

func money() map[string]any {
	return map[string]any{"type": "number", "minimum": 0}
}

func entity(props map[string]any, required ...string) Entity {
	req := make([]any, len(required))
	for i, r := range required {
		req[i] = r
	}
	return Entity{
		Create: map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             req,
			"additionalProperties": false,
		},
		Update: map[string]any{
			"type":                 "object",
			"properties":           props,
			"additionalProperties": false,
			"minProperties":        1,
		},
	}
}

var (
	Author = entity(map[string]any{
		"author_name": text(255),
		"author_bio":  longText(),
	}, "author_name")

	Book = entity(map[string]any{
		"book_title":        text(255),
		"author_id":         ref(),
		"publisher_id":      ref(),
		"book_genre":        text(255),
		"book_format":       map[string]any{"type": "string", "enum": []any{"physical", "ebook", "audiobook"}},
		"book_price":        money(),
		"book_publish_date": date(),
	}, "book_title", "author_id", "publisher_id", "book_format", "book_price", "book_publish_date")

	Customer = entity(map[string]any{
		"customer_name":               text(255),
		"customer_email":              text(255),
		"customer_phone":              text(50),
		"customer_address":            text(255),
		"customer_total_spent":        money(),
		"customer_last_purchase_date": date(),
	}, "customer_name", "customer_email", "customer_total_spent")

	Publisher = entity(map[string]any{
		"publisher_name":    text(255),
		"publisher_address": text(255),
		"publisher_phone":   text(50),
	}, "publisher_name")

	Purchase = entity(map[string]any{
		"customer_id":       ref(),
		"book_id":           ref(),
		"purchase_date":     date(),
		"purchase_quantity": count(),
		"purchase_amount":   money(),
	}, "customer_id", "book_id", "purchase_date", "purchase_quantity", "purchase_amount")

	Review = entity(map[string]any{
		"book_id":       ref(),
		"customer_id":   ref(),
		"review_rating": map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
		"review_text":   longText(),
		"review_date":   date(),
	}, "book_id", "customer_id", "review_rating", "review_date")

	Sale = entity(map[string]any{
		"book_id":       ref(),
		"sale_quantity": count(),
		"sale_date":     date(),
	}, "book_id", "sale_quantity", "sale_date")
)
