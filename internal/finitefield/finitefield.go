package finitefield

import (
	"fmt"
	"math/big"
)

// FieldElement represents an element in a finite field.
type FieldElement struct {
	Value *big.Int
	Prime *big.Int
}

// NewFieldElement creates a new FieldElement with the given value and prime.
func NewFieldElement(value, prime *big.Int) (*FieldElement, error) {
	if value == nil {
		return nil, nil
	}
	if value.Sign() < 0 || value.Cmp(prime) >= 0 {
		return nil, ErrOutOfRange
	}
	return &FieldElement{Value: new(big.Int).Set(value), Prime: new(big.Int).Set(prime)}, nil
}

// Add adds two field elements and returns a new field element.
func (a *FieldElement) Add(b *FieldElement) (*FieldElement, error) {
	if a.Prime.Cmp(b.Prime) != 0 {
		return nil, ErrFieldMismatch
	}
	result := new(big.Int).Mod(new(big.Int).Add(a.Value, b.Value), a.Prime)
	return NewFieldElement(result, a.Prime)
}

// Subtract subtracts two field elements and returns a new field element.
func (a *FieldElement) Subtract(b *FieldElement) (*FieldElement, error) {
	if a.Prime.Cmp(b.Prime) != 0 {
		return nil, ErrFieldMismatch
	}
	result := new(big.Int).Sub(a.Value, b.Value)
	if result.Sign() < 0 {
		result.Add(result, a.Prime)
	}
	return NewFieldElement(result, a.Prime)
}

// Multiply multiplies two field elements and returns a new field element.
func (a *FieldElement) Multiply(b *FieldElement) (*FieldElement, error) {
	if a.Prime.Cmp(b.Prime) != 0 {
		return nil, ErrFieldMismatch
	}
	result := new(big.Int).Mul(a.Value, b.Value)
	result.Mod(result, a.Prime)
	return NewFieldElement(result.Mod(result, a.Prime), a.Prime)
}

// Exponentiate computes the exponentiation of a field element to a given power.
func (a *FieldElement) Exponentiate(power *big.Int) (*FieldElement, error) {
	result := new(big.Int).Exp(a.Value, power, a.Prime)
	return NewFieldElement(result.Mod(result, a.Prime), a.Prime)
}

// Squared computes the square of a field element.
func (a *FieldElement) Squared() (*FieldElement, error) {
	return a.Exponentiate(big.NewInt(2))
}

func (a *FieldElement) Cubed() (*FieldElement, error) {
	return a.Exponentiate(big.NewInt(3))
}

// Equal checks if two field elements are equal.
func (a *FieldElement) Equal(b *FieldElement) bool {
	return a.Value.Cmp(b.Value) == 0 && a.Prime.Cmp(b.Prime) == 0
}

// Negate returns a new FieldElement with the negated value of the current FieldElement.
func (a *FieldElement) Negate() (*FieldElement, error) {
	// Calculate the negated value as (prime - value) % prime
	negatedValue := new(big.Int).Sub(a.Prime, a.Value)
	return NewFieldElement(negatedValue.Mod(negatedValue, a.Prime), a.Prime)
}

// String returns the string representation of a field element.
func (a *FieldElement) String() string {
	return fmt.Sprintf("FieldElement_%s(%s)", a.Prime.String(), a.Value.String())
}

// GetEvenOddSquareRoots returns the two square roots of a field element,
// ordered (even, odd) by parity of their Value. It only holds when Prime is
// congruent to 3 mod 4, which lets the root be computed directly as
// a^((Prime+1)/4) without a general Tonelli-Shanks search.
func (a *FieldElement) GetEvenOddSquareRoots() (even, odd *big.Int, err error) {
	if new(big.Int).Mod(a.Prime, big.NewInt(4)).Cmp(big.NewInt(3)) != 0 {
		return nil, nil, fmt.Errorf("prime is not congruent to 3 mod 4, cannot take square root this way")
	}
	exponent := new(big.Int).Div(new(big.Int).Add(a.Prime, big.NewInt(1)), big.NewInt(4))
	root := new(big.Int).Exp(a.Value, exponent, a.Prime)
	other := new(big.Int).Sub(a.Prime, root)

	if new(big.Int).Mod(root, big.NewInt(2)).Sign() == 0 {
		return root, other, nil
	}
	return other, root, nil
}

// Sqrt returns the even square root of the field element, as given by
// GetEvenOddSquareRoots, and has the same requirement on Prime.
func (a *FieldElement) Sqrt() (*FieldElement, error) {
	even, _, err := a.GetEvenOddSquareRoots()
	if err != nil {
		return nil, err
	}
	return NewFieldElement(even, a.Prime)
}

// Divide computes the division of two field elements (a / b).
func (a *FieldElement) Divide(b *FieldElement) (*FieldElement, error) {
	if a.Prime.Cmp(b.Prime) != 0 {
		return nil, ErrFieldMismatch
	}
	if b.Value.Sign() == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	// Compute the modular multiplicative inverse of b
	inverse := new(big.Int).ModInverse(b.Value, a.Prime)
	if inverse == nil {
		return nil, fmt.Errorf("division by non-invertible element")
	}
	result := new(big.Int).Mul(a.Value, inverse)
	return NewFieldElement(result.Mod(result, a.Prime), a.Prime)
}
