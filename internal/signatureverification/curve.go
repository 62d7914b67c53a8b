package signatureverification

import (
	"fmt"
	"math/big"

	"github.com/blockworks-go/legacytx/internal/ellipticcurve"
	"github.com/blockworks-go/legacytx/internal/finitefield"
)

// secp256k1 domain parameters, taken from SEC 2 section 2.4.1.
// y^2 = x^3 + A*x + B over the field of order P, with group order N
// generated by G.
var (
	P *big.Int
	N *big.Int
	A *S256FieldElement
	B *S256FieldElement
	G *S256Point
)

func fromHex(s string) *big.Int {
	r, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex in secp256k1 domain parameter: " + s)
	}
	return r
}

func init() {
	P = new(big.Int).Sub(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), new(big.Int).Lsh(big.NewInt(1), 32)), big.NewInt(977))
	N = fromHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

	var err error
	A, err = NewS256FieldElement(big.NewInt(0))
	if err != nil {
		panic(err)
	}
	B, err = NewS256FieldElement(big.NewInt(7))
	if err != nil {
		panic(err)
	}

	gx, err := NewS256FieldElement(fromHex("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"))
	if err != nil {
		panic(err)
	}
	gy, err := NewS256FieldElement(fromHex("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"))
	if err != nil {
		panic(err)
	}
	G, err = NewS256Point(gx, gy)
	if err != nil {
		panic(err)
	}
}

// S256FieldElement is a finitefield.FieldElement fixed to the secp256k1
// field prime.
type S256FieldElement struct {
	finitefield.FieldElement
}

// NewS256FieldElement builds a field element on the secp256k1 prime field.
func NewS256FieldElement(value *big.Int) (*S256FieldElement, error) {
	fe, err := finitefield.NewFieldElement(value, P)
	if err != nil {
		return nil, err
	}
	return &S256FieldElement{FieldElement: *fe}, nil
}

// S256Point is an ellipticcurve.Point fixed to the secp256k1 curve (a=0, b=7).
type S256Point struct {
	ellipticcurve.Point
}

// NewS256Point builds a point on the secp256k1 curve, or the identity
// element if x and y are both nil.
func NewS256Point(x, y *S256FieldElement) (*S256Point, error) {
	var xField, yField *finitefield.FieldElement
	if x != nil {
		xField = &x.FieldElement
	}
	if y != nil {
		yField = &y.FieldElement
	}

	point, err := ellipticcurve.NewPoint(xField, yField, &A.FieldElement, &B.FieldElement)
	if err != nil {
		return nil, fmt.Errorf("point is not on secp256k1 curve: %w", err)
	}

	return &S256Point{Point: *point}, nil
}

// ScalarMultiplication multiplies the point by coefficient, reducing it
// modulo the group order N first since kG = (k mod N)G.
func (p256 *S256Point) ScalarMultiplication(coefficient *big.Int) (*S256Point, error) {
	coefficient = new(big.Int).Mod(coefficient, N)

	result, err := p256.Point.ScalarMultiplication(coefficient)
	if err != nil {
		return nil, err
	}

	return &S256Point{Point: *result}, nil
}
