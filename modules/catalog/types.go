package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/catalog-service/domain/product"
	"github.com/shopspring/decimal"
)

// Defaults applied when find_all_products omits a field.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// decodeState remembers why a request body could not be decoded.
// Handlers check it first and answer with invalid_input.
type decodeState struct {
	decodeErr error
}

func (d *decodeState) setDecodeErr(err error) { d.decodeErr = err }

func (d *decodeState) requestError() error {
	if d.decodeErr == nil {
		return nil
	}
	return product.InvalidInput("malformed request: %v", d.decodeErr)
}

type decodeRecorder interface {
	setDecodeErr(err error)
}

// decodeRequest is the unmarshaler handed to mono. A body that fails to decode
// is recorded on the request instead of failing the call; an empty body
// decodes to the zero request.
func decodeRequest(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	if rec, ok := v.(decodeRecorder); ok {
		rec.setDecodeErr(err)
		return nil
	}
	return err
}

// ProductID is a product id on the wire. It accepts a JSON number or a numeric string.
type ProductID int64

// UnmarshalJSON implements json.Unmarshaler.
func (id *ProductID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %s", string(data))
	}
	*id = ProductID(v)
	return nil
}

// CreateProductRequest is the request for creating a product.
type CreateProductRequest struct {
	decodeState
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock,omitempty"`
	SKU         *string         `json:"sku,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ListProductsRequest is the request for one page of available products.
type ListProductsRequest struct {
	decodeState
	Page  *int `json:"page,omitempty"`
	Limit *int `json:"limit,omitempty"`
}

// GetProductRequest is the request for getting a product.
type GetProductRequest struct {
	decodeState
	ID         ProductID `json:"id"`
	ActiveOnly bool      `json:"active_only,omitempty"`
}

// PatchFields are the mutable product fields accepted by an update.
type PatchFields struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// UpdateProductRequest is the request for updating a product.
// The fields may sit next to id or inside a nested "patch" object; any id
// found inside the patch is ignored. When a field appears in both places the
// nested value wins.
type UpdateProductRequest struct {
	decodeState
	ID ProductID `json:"id"`
	PatchFields
	Patch *PatchFields `json:"patch,omitempty"`
}

// ToPatch returns the domain patch carried by the request.
func (r UpdateProductRequest) ToPatch() product.Patch {
	f := r.PatchFields
	if n := r.Patch; n != nil {
		if n.Name != nil {
			f.Name = n.Name
		}
		if n.Price != nil {
			f.Price = n.Price
		}
		if n.Stock != nil {
			f.Stock = n.Stock
		}
		if n.SKU != nil {
			f.SKU = n.SKU
		}
		if n.Description != nil {
			f.Description = n.Description
		}
	}
	return product.Patch{
		Name:        f.Name,
		Price:       f.Price,
		Stock:       f.Stock,
		SKU:         f.SKU,
		Description: f.Description,
	}
}

// DeleteProductRequest is the request for removing a product.
// It accepts either {"id": ...} or a bare id.
type DeleteProductRequest struct {
	decodeState
	ID ProductID `json:"id"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *DeleteProductRequest) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		type plain DeleteProductRequest
		var p plain
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return err
		}
		*r = DeleteProductRequest(p)
		return nil
	}
	return r.ID.UnmarshalJSON(data)
}

// ErrorResponse is the error body sent back in place of a result.
type ErrorResponse struct {
	Kind    product.Kind `json:"kind"`
	Message string       `json:"message"`
}

// ProductResponse represents a product in responses.
type ProductResponse struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Stock       int         `json:"stock"`
	SKU         *string     `json:"sku,omitempty"`
	Description string      `json:"description"`
	Available   bool        `json:"available"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ProductReply is the reply for commands returning a single product.
type ProductReply struct {
	*ProductResponse
	Error *ErrorResponse `json:"error,omitempty"`
}

// ListProductsResponse is one page of products with its metadata.
type ListProductsResponse struct {
	Data []ProductResponse `json:"data"`
	Meta product.PageMeta  `json:"meta"`
}

// ListProductsReply is the reply for find_all_products.
type ListProductsReply struct {
	*ListProductsResponse
	Error *ErrorResponse `json:"error,omitempty"`
}

// HardDeleteResponse confirms a physical delete.
type HardDeleteResponse struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

// HardDeleteReply is the reply for hard_delete_product.
type HardDeleteReply struct {
	*HardDeleteResponse
	Error *ErrorResponse `json:"error,omitempty"`
}

// ProductEvent is the payload of every product lifecycle event.
type ProductEvent struct {
	EventID    string    `json:"event_id"`
	ProductID  int64     `json:"product_id"`
	Name       string    `json:"name"`
	Available  bool      `json:"available"`
	OccurredAt time.Time `json:"occurred_at"`
}

// toProductResponse converts a domain Product to a ProductResponse.
func toProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       json.Number(p.Price.String()),
		Stock:       p.Stock,
		SKU:         p.SKU,
		Description: p.Description,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// toErrorResponse converts any error into the wire error body.
func toErrorResponse(err error) *ErrorResponse {
	var perr *product.Error
	if errors.As(err, &perr) {
		return &ErrorResponse{Kind: perr.Kind, Message: perr.Message}
	}
	return &ErrorResponse{Kind: product.KindOf(err), Message: "internal error"}
}
