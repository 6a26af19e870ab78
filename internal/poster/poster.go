// Package poster renders the printable LaTeX posters that frame each QR code.
package poster

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"
)

var qrPrefix = regexp.MustCompile(`^QR_P\d+_`)

// LocationName turns QR_P1_Sala_de_Estudio.png into "Sala de Estudio".
func LocationName(file string) string {
	name := qrPrefix.ReplaceAllString(file, "")
	name = strings.TrimSuffix(name, ".png")
	return strings.ReplaceAll(name, "_", " ")
}

const header = `\documentclass[a4paper,12pt]{article}

% ---------------- PAQUETES ----------------
\usepackage[spanish]{babel}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}
\usepackage{graphicx}
\usepackage{geometry}
\usepackage{xcolor}
\usepackage{helvet}
\usepackage{array}
\usepackage{tcolorbox}
\usepackage{enumitem}

\renewcommand{\familydefault}{\sfdefault}

% ---------------- MÁRGENES ----------------
\geometry{
  top=1.5cm,
  bottom=1.5cm,
  left=1.8cm,
  right=1.8cm
}

\begin{document}

`

var pageTmpl = template.Must(template.New("page").Delims("<<", ">>").Parse(`% ================== PÁGINA: <<.Location>> ==================
\pagestyle{empty}
\begin{center}
\begin{tabular}{ m{4.5cm} m{6cm} m{4.5cm} }
\centering
\includegraphics[width=3.5cm]{Logos/umag.png}
&
\centering
{\large \textbf{Facultad de Ingeniería}}
&
\centering
\includegraphics[width=3.5cm]{Logos/dic.png}
\end{tabular}
\end{center}
\vspace{0.5cm}
\begin{center}
\colorbox{blue!15}{\parbox{0.9\textwidth}{
  \centering
  \vspace{0.3cm}
  {\Huge \textbf{<<.Location>>}}\\[0.2cm]
  {\LARGE Piso <<.Floor>>}
  \vspace{0.3cm}
}}
\end{center}
\vspace{0.6cm}
\begin{center}
{\LARGE \textbf{Sistema de Navegación Interna}}
\end{center}
\vspace{0.4cm}
\begin{center}
\begin{tcolorbox}[width=0.9\textwidth, colback=gray!5, colframe=black!50, boxrule=0.5pt, arc=3mm]
\vspace{0.1cm}
{\large \textbf{¿Cómo usar?}}
\vspace{0.2cm}
\begin{enumerate}[leftmargin=2cm, labelsep=0.5cm, itemsep=0.3cm]
  \item[\textbf{1.}] Abre la app \textbf{`+"``"+`Mi Facultad UMAG''}
  \item[\textbf{2.}] Escanea el código QR de abajo
  \item[\textbf{3.}] Selecciona tu destino
  \item[\textbf{4.}] Sigue la ruta mostrada
\end{enumerate}
\vspace{0.1cm}
\end{tcolorbox}
\end{center}
\vspace{0.5cm}
\begin{center}
\fbox{\includegraphics[width=7cm]{<<.QRPath>>}}
\end{center}
\vspace{0.4cm}
\begin{center}
{\footnotesize
\textit{Aplicación de navegación interna - Universidad de Magallanes}
}
\end{center}
`))

// Page renders the poster page of one location.
func Page(location string, floor int, qrPath string) string {
	var b strings.Builder
	// template input is plain strings; Execute cannot fail on a strings.Builder
	_ = pageTmpl.Execute(&b, struct {
		Location string
		Floor    int
		QRPath   string
	}{location, floor, qrPath})
	return b.String()
}

// Document renders one page per QR image of the floor, in the order given.
// Images are referenced as <prefix>/piso<floor>/<file>.
func Document(floor int, files []string, prefix string) string {
	var b strings.Builder
	b.WriteString(header)
	for i, file := range files {
		qrPath := path.Join(prefix, fmt.Sprintf("piso%d", floor), file)
		b.WriteString(Page(LocationName(file), floor, qrPath))
		if i < len(files)-1 {
			b.WriteString("\\newpage\n\n")
		}
	}
	b.WriteString("\n\\end{document}\n")
	return b.String()
}

// ListImages returns the .png files of dir sorted by name.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".png") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// FileName is the name of the poster document of a floor.
func FileName(floor int) string {
	return fmt.Sprintf("Afiches_Piso%d.tex", floor)
}

// WriteFloor writes Afiches_Piso<floor>.tex into outDir for the images in qrDir
// and returns how many pages it holds.
func WriteFloor(qrDir, outDir string, floor int, prefix string) (int, error) {
	files, err := ListImages(qrDir)
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", qrDir, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", outDir, err)
	}
	target := filepath.Join(outDir, FileName(floor))
	if err := os.WriteFile(target, []byte(Document(floor, files, prefix)), 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", target, err)
	}
	return len(files), nil
}
