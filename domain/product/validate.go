package product

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ValidateName checks that a name is present.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return InvalidInput("name is required")
	}
	return nil
}

// ValidatePrice checks that a price is positive with at most MaxPriceScale fractional digits.
func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return InvalidInput("price must be greater than 0")
	}
	if !price.Equal(price.Round(MaxPriceScale)) {
		return InvalidInput("price must have at most %d decimal places", MaxPriceScale)
	}
	intDigits, sigDigits := priceDigits(price)
	if intDigits > MaxPriceIntegerDigits {
		return InvalidInput("price must have at most %d integer digits", MaxPriceIntegerDigits)
	}
	if sigDigits > MaxPriceSignificantDigits {
		return InvalidInput("price must have at most %d significant digits", MaxPriceSignificantDigits)
	}
	return nil
}

// priceDigits counts the integer digits and the significant digits of a positive price.
func priceDigits(price decimal.Decimal) (intDigits, sigDigits int) {
	// String drops trailing fractional zeros.
	s := price.Abs().String()
	intPart, fracPart, _ := strings.Cut(s, ".")
	intPart = strings.TrimLeft(intPart, "0")
	intDigits = len(intPart)
	if intDigits > 0 {
		return intDigits, intDigits + len(fracPart)
	}
	return 0, len(strings.TrimLeft(fracPart, "0"))
}

// ValidateStock checks that stock is not negative.
func ValidateStock(stock int) error {
	if stock < 0 {
		return InvalidInput("stock must be greater than or equal to 0")
	}
	return nil
}

// ValidateSKU checks that a present sku is not blank.
func ValidateSKU(sku string) error {
	if strings.TrimSpace(sku) == "" {
		return InvalidInput("sku must not be empty when provided")
	}
	return nil
}

// Validate checks every field of a product about to be created.
func (p *Product) Validate() error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if err := ValidatePrice(p.Price); err != nil {
		return err
	}
	if err := ValidateStock(p.Stock); err != nil {
		return err
	}
	if p.SKU != nil {
		if err := ValidateSKU(*p.SKU); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the fields present in the patch.
func (p Patch) Validate() error {
	if p.Name != nil {
		if err := ValidateName(*p.Name); err != nil {
			return err
		}
	}
	if p.Price != nil {
		if err := ValidatePrice(*p.Price); err != nil {
			return err
		}
	}
	if p.Stock != nil {
		if err := ValidateStock(*p.Stock); err != nil {
			return err
		}
	}
	if p.SKU != nil {
		if err := ValidateSKU(*p.SKU); err != nil {
			return err
		}
	}
	return nil
}
