package finiterepr

import (
	"testing"
)

func BenchmarkEncodeRecord(b *testing.B) {
	s := shipmentShape()
	in := shipment{Zone: 42, Priority: Some[int8](-3), Fragile: true, Label: Err[uint16]('z')}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Encode[uint64](s, in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeRecord(b *testing.B) {
	s := shipmentShape()
	n, err := Encode[uint64](s, shipment{Zone: 42, Fragile: true, Label: Ok[uint16, rune](9)})
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Decode(s, n); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeSum(b *testing.B) {
	s := signalShape()
	in := signal{kind: 2, a: true}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Encode[uint8](s, in); err != nil {
			b.Fatal(err)
		}
	}
}
