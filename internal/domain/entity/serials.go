package entity

// removeSerial devuelve la lista sin el serial indicado y si estaba presente.
func removeSerial(list []string, serial string) ([]string, bool) {
	for i, s := range list {
		if s == serial {
			out := make([]string, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), true
		}
	}
	return list, false
}

func containsSerial(list []string, serial string) bool {
	for _, s := range list {
		if s == serial {
			return true
		}
	}
	return false
}

// addSerial agrega el serial si no existe (idempotente).
func addSerial(list []string, serial string) []string {
	if serial == "" || containsSerial(list, serial) {
		return list
	}
	return append(list, serial)
}
