package render

// defaultStylesheet is the stylesheet attached to CSS-capable engines and the
// HTML fallback. Tuned so a 400-500 word CV fits a single page.
const defaultStylesheet = `body {
  font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
  font-size: 10pt;
  line-height: 1.3;
  max-width: 7.5in;
  margin: 0.4in auto;
  color: #1a1a1a;
}

h1 {
  font-size: 18pt;
  margin: 0 0 2pt 0;
  border-bottom: 2px solid #2a2a2a;
  padding-bottom: 4pt;
}

h2 {
  font-size: 11pt;
  text-transform: uppercase;
  letter-spacing: 1px;
  margin: 10pt 0 4pt 0;
  border-bottom: 1px solid #cccccc;
  padding-bottom: 2pt;
}

p {
  margin: 3pt 0;
}

ul {
  margin: 3pt 0 6pt 0;
  padding-left: 16pt;
}

li {
  margin-bottom: 2pt;
}

strong {
  color: #000000;
}

@page {
  size: A4;
  margin: 0.6in;
}
`

// latexHeader configures the LaTeX engine family so list items render one per
// line with readable spacing instead of pandoc's compact tightlist default.
const latexHeader = `% CV header fragment: list and paragraph spacing rules
\usepackage{enumitem}
\usepackage{parskip}

\setlist[itemize]{
    topsep=2pt,
    partopsep=0pt,
    parsep=2pt,
    itemsep=3pt,
    leftmargin=18pt
}

\providecommand{\tightlist}{%
  \setlength{\itemsep}{3pt}\setlength{\parskip}{0pt}}

\setlength{\parskip}{4pt}
`
