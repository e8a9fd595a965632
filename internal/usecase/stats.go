package usecase

import (
	"errors"
	"sort"
)

// ErrEmptySample は要素のないサンプルの統計を求めたことを表す
var ErrEmptySample = errors.New("sample contains no elements")

// Mean は平均を返す
func Mean(values []int) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySample
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values)), nil
}

// Median は中央値を返す（要素数が偶数なら中央2つの平均）
func Median(values []int) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySample
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid]), nil
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2, nil
}

// Sum は合計を返す
func Sum(values []int) int {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum
}
