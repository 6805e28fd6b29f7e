package config

// DefaultExcludedExtensions are dropped from the coding activity report.
// Keys are lower-case.
var DefaultExcludedExtensions = []string{
	"lock",
	"sum",
	"md",
	"mdx",
	"txt",
	"log",
	"csv",
	"svg",
	"png",
	"jpg",
	"jpeg",
	"gif",
	"ico",
	"webp",
	"pdf",
	"map",
	"snap",
	"gitignore",
	"gitattributes",
	"dockerignore",
	"editorconfig",
	"license",
	"env",
}

// DefaultExtensionNames maps a lower-case extension to the name shown in reports.
var DefaultExtensionNames = map[string]string{
	"go":     "Go",
	"mod":    "Go Module",
	"ts":     "TypeScript",
	"tsx":    "TypeScript",
	"js":     "JavaScript",
	"jsx":    "JavaScript",
	"mjs":    "JavaScript",
	"cjs":    "JavaScript",
	"vue":    "Vue",
	"svelte": "Svelte",
	"py":     "Python",
	"rb":     "Ruby",
	"rs":     "Rust",
	"java":   "Java",
	"kt":     "Kotlin",
	"kts":    "Kotlin",
	"swift":  "Swift",
	"c":      "C",
	"h":      "C Header",
	"cc":     "C++",
	"cpp":    "C++",
	"hpp":    "C++",
	"cs":     "C#",
	"php":    "PHP",
	"scala":  "Scala",
	"dart":   "Dart",
	"ex":     "Elixir",
	"exs":    "Elixir",
	"hs":     "Haskell",
	"lua":    "Lua",
	"sh":     "Shell",
	"bash":   "Shell",
	"zsh":    "Shell",
	"ps1":    "PowerShell",
	"sql":    "SQL",
	"html":   "HTML",
	"css":    "CSS",
	"scss":   "SCSS",
	"sass":   "Sass",
	"less":   "Less",
	"json":   "JSON",
	"yml":    "YAML",
	"yaml":   "YAML",
	"toml":   "TOML",
	"xml":    "XML",
	"proto":  "Protobuf",
	"tf":     "Terraform",
	"nix":    "Nix",
	"zig":    "Zig",
}
