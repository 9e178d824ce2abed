package billing

import "strings"

var (
	cnDigits     = [10]string{"零", "壹", "贰", "叁", "肆", "伍", "陆", "柒", "捌", "玖"}
	cnPlaceUnits = [4]string{"仟", "佰", "拾", ""}
	cnGroupUnits = [5]string{"", "万", "亿", "万亿", "亿亿"}
)

// CapitalAmount renders a whole yuan amount as a Chinese capitalized amount
// with the 元整 suffix.
//
// Zero-compression rule: exactly one 零 is emitted for any internal run of
// zero digits, regardless of how many positions it spans or whether it
// crosses a 万/亿 group boundary; trailing zeros emit nothing. So 1005 reads
// 壹仟零伍元整 and 100000005 reads 壹亿零伍元整. Zero itself is the explicit
// special case 零元整.
func CapitalAmount(amount int64) string {
	if amount == 0 {
		return "零元整"
	}

	var b strings.Builder
	if amount < 0 {
		b.WriteString("负")
		amount = -amount
	}

	// Split into 4-digit groups, least significant first, so each group gets
	// its 万/亿 unit and keeps the digit units within reach of 仟佰拾.
	var groups []int
	for amount > 0 {
		groups = append(groups, int(amount%10000))
		amount /= 10000
	}

	written := false
	zeroPending := false
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			if written {
				zeroPending = true
			}
			continue
		}
		if written && g < 1000 {
			// Leading zero digit inside this group, e.g. the 0 in 1_0005.
			zeroPending = true
		}
		if zeroPending {
			b.WriteString("零")
			zeroPending = false
		}
		b.WriteString(capitalGroup(g))
		b.WriteString(cnGroupUnits[i])
		written = true
	}

	b.WriteString("元整")
	return b.String()
}

// capitalGroup converts a value in [1, 9999] without its group unit.
func capitalGroup(g int) string {
	digits := [4]int{g / 1000 % 10, g / 100 % 10, g / 10 % 10, g % 10}

	var b strings.Builder
	written := false
	zeroPending := false
	for i, d := range digits {
		if d == 0 {
			if written {
				zeroPending = true
			}
			continue
		}
		if zeroPending {
			b.WriteString("零")
			zeroPending = false
		}
		b.WriteString(cnDigits[d])
		b.WriteString(cnPlaceUnits[i])
		written = true
	}
	return b.String()
}
