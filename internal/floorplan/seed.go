package floorplan

import "fmt"

// SeedLayout returns the house's default table layout for a room. Rooms
// without a fixed layout get a 4-wide block of ten generic tables.
func SeedLayout(roomName string) map[string]*Plan {
	at := func(x, y, w, h int) *Plan {
		return &Plan{X: x, Y: y, W: w, H: h}
	}

	switch roomName {
	case "Restaurant":
		return map[string]*Plan{
			"1":  at(18, 2, 2, 2),
			"2":  at(18, 0, 2, 1),
			"3":  at(18, 5, 2, 2),
			"4":  at(18, 8, 2, 2),
			"5":  at(18, 10, 2, 2),
			"6":  at(13, 0, 2, 1),
			"7":  at(19, 0, 1, 1),
			"8":  at(19, 2, 1, 2),
			"9":  at(14, 1, 2, 2),
			"10": at(19, 7, 1, 2),
			"11": at(9, 7, 2, 3),
			"14": at(3, 0, 2, 1),
		}
	case "Gewölbe":
		return map[string]*Plan{
			"17": at(3, 0, 2, 2),
			"18": at(7, 0, 2, 2),
			"14": at(0, 4, 2, 3),
			"15": at(4, 4, 2, 3),
			"16": at(8, 4, 2, 3),
		}
	case "Scheune EG":
		return map[string]*Plan{
			"30": at(0, 0, 1, 1),
			"31": at(1, 0, 2, 1),
			"32": at(3, 0, 2, 1),
			"33": at(5, 0, 2, 1),
			"34": at(7, 0, 2, 1),
			"37": at(0, 2, 1, 2),
			"38": at(0, 4, 1, 2),
			"35": at(3, 4, 3, 1),
			"36": at(8, 3, 3, 1),
		}
	case "Scheune UG":
		return map[string]*Plan{
			"40": at(0, 3, 1, 1),
			"41": at(3, 4, 2, 2),
			"42": at(6, 6, 2, 2),
			"43": at(7, 4, 2, 2),
			"44": at(9, 2, 2, 2),
		}
	case "Terrasse":
		return map[string]*Plan{
			"60": at(0, 0, 2, 2),
			"61": at(2, 0, 2, 2),
			"62": at(4, 0, 2, 2),
			"65": at(6, 1, 1, 1),
			"63": at(1, 4, 2, 2),
			"64": at(3, 4, 2, 2),
			"66": at(7, 4, 2, 2),
			"67": at(8, 7, 3, 1),
		}
	default:
		tables := make(map[string]*Plan, 10)
		for i := 1; i <= 10; i++ {
			tables[fmt.Sprintf("T%d", i)] = at((i-1)%4, (i-1)/4, 1, 1)
		}
		return tables
	}
}
