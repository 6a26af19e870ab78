package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"
)

var readmeTmpl = template.Must(template.New("readme").Parse(`# Códigos QR - Sistema de Navegación UMAG

## 📋 Información General

Este directorio contiene los códigos QR generados para el sistema de navegación
interior de la Facultad de Ingeniería de la Universidad de Magallanes.

## 📁 Estructura

` + "```" + `
qr_codes/
{{- range .Floors}}
├── piso{{.}}/          # QRs del piso {{.}}
{{- end}}
` + "```" + `

## 🔍 Formato de Datos

Cada código QR contiene información en formato JSON:

` + "```json" + `
{
  "type": "nodo",
  "id": "P1_Entrada_1",
  "piso": 1,
  "x": 100,
  "y": 200
}
` + "```" + `

## 📏 Especificaciones de Impresión

- **Tamaño recomendado:** 5x5 cm
- **Tamaño mínimo:** 3x3 cm
- **Material:** Stickers vinilo plastificado (resistente al agua)
- **Colores:** Blanco y negro únicamente
- **Corrección de errores:** Nivel H (30% de corrección)

## 📍 Instrucciones de Instalación

1. **Impresión:**
   - Usa una impresora láser o de inyección de tinta de alta calidad
   - Imprime en papel adhesivo vinilo
   - Asegúrate de que el contraste sea alto (negro puro sobre blanco puro)

2. **Colocación:**
   - Altura estándar: 1.5 metros desde el suelo
   - Superficie: Limpia, seca y plana
   - Ubicación: Visible y accesible
   - Evita: Esquinas, bordes, superficies rugosas

3. **Mantenimiento:**
   - Limpia periódicamente con paño húmedo
   - Reemplaza si el QR está dañado o ilegible
   - Verifica el escaneo con la app cada 3 meses

## 📱 Uso con la Aplicación

1. Abre la aplicación "Navegación UMAG"
2. Selecciona el piso actual
3. Presiona el botón de escaneo QR
4. Apunta la cámara al código QR
5. El sistema detectará tu ubicación automáticamente
6. Selecciona tu destino para obtener la ruta

## 🛠️ Regenerar QRs

Si necesitas regenerar los códigos QR:

` + "```bash" + `
go run ./cmd/generate-qrs
` + "```" + `

---

**Fecha de generación:** {{.Date}}
**Ejecución:** {{.RunID}}
**Versión:** 1.0
`))

// WriteReadme writes the printing and mounting guide next to the generated QRs.
func (g *Generator) WriteReadme(path string, floors []int, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = readmeTmpl.Execute(f, struct {
		Floors []int
		Date   string
		RunID  string
	}{floors, now.Format("2006-01-02 15:04:05"), g.runID.String()})
	if err != nil {
		return fmt.Errorf("render readme: %w", err)
	}
	fmt.Fprintf(g.out, "📄 Info file created: %s\n", path)
	return nil
}
