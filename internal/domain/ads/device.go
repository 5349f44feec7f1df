package ads

// MobileBreakpoint separa mobile de desktop (breakpoint md del frontend).
const MobileBreakpoint = 768

// Classify es una función pura del ancho de viewport inyectado:
// width < 768 => mobile, si no desktop. Ancho desconocido (<= 0) se
// trata como desktop.
func Classify(width int) Device {
	if width > 0 && width < MobileBreakpoint {
		return DeviceMobile
	}
	return DeviceDesktop
}
