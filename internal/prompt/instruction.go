package prompt

import (
	"fmt"
	"strings"
)

// FileSpec names one file the model must produce.
type FileSpec struct {
	Path string
	Role string
}

// RequiredFiles is the closed set of files the model output must contain.
// The parser's output contract is derived from the same list.
var RequiredFiles = []FileSpec{
	{Path: "src/app/page.tsx", Role: "homepage with hero section, collections grid, featured products"},
	{Path: "src/app/products/[handle]/page.tsx", Role: "product detail page (server component)"},
	{Path: "src/app/collections/[handle]/page.tsx", Role: "collection listing page (server component)"},
	{Path: "src/app/cart/page.tsx", Role: "cart page with line items, quantity controls, checkout redirect"},
	{Path: "src/app/layout.tsx", Role: "root layout wrapping {children} in CartProvider, importing globals.css"},
	{Path: "src/components/header.tsx", Role: "navigation header with cart icon (client component for cart count)"},
	{Path: "src/components/footer.tsx", Role: "footer (server component)"},
	{Path: "src/components/product-card.tsx", Role: "product card used in homepage and collection pages"},
	{Path: "src/components/product-gallery.tsx", Role: `image gallery with thumbnail selector (client component, "use client")`},
	{Path: "src/components/product-options.tsx", Role: `variant selectors + add to cart button (client component, "use client", uses useCart)`},
	{Path: "src/app/globals.css", Role: "Tailwind base import + CSS custom properties for theme colors"},
}

// RequiredPaths returns the paths of RequiredFiles.
func RequiredPaths() []string {
	out := make([]string, len(RequiredFiles))
	for i, f := range RequiredFiles {
		out[i] = f.Path
	}
	return out
}

// ImportRules are module paths the generated code must import verbatim
// instead of reimplementing them. The targets are template files.
var ImportRules = []string{
	`import { getProducts, getProduct, getCollections, getCollection } from "@/lib/shopify"`,
	`import { useCart } from "@/components/cart-provider"`,
	`import type { Product, Collection, Cart, CartLine, Money } from "@/lib/types"`,
}

const header = `You are an expert frontend engineer specializing in Next.js App Router, TypeScript, and Tailwind CSS 4. You analyze screenshots of ecommerce websites and generate complete, production-ready Next.js storefronts.

CRITICAL OUTPUT RULES:
- Output ONLY a valid JSON object. No prose. No markdown fences. No text outside the JSON.
- The JSON schema is exactly: { "files": [{ "path": string, "content": string }] }
- Every file must be complete and immediately runnable. No placeholders. No TODOs. No ellipsis.`

const rules = `TECHNOLOGY RULES:
- Tailwind CSS 4 utility classes only. No inline styles.
- CSS custom properties allowed in globals.css only.
- TypeScript strict types on all components and functions.
- Server components by default. Only use "use client" when using hooks or event handlers.
- next/image for all images. next/link for all navigation.

DESIGN EXTRACTION RULES:
- Identify the color palette from screenshots. Define as --color-primary, --color-secondary, --color-accent, --color-bg, --color-text in globals.css.
- Match the typography hierarchy: heading size/weight, body weight, letter-spacing.
- Replicate the card layout: aspect ratio, image treatment, product info structure.
- Replicate the header: logo position (left/center), nav alignment, icon cluster.
- Replicate the hero: full-width vs split layout, overlay style, CTA button style.
- Replicate spacing rhythm: container max-width, section padding, grid gaps.
- Preserve color scheme faithfully: dark site stays dark, light site stays light.

CONTENT RULES:
- Never copy brand names, logos, or real product names. Use neutral placeholders: "Store", "Collection", "Product Name", etc.
- Never copy real pricing. Use placeholder: $99.00
- Product images use next/image with a placeholder src prop (will be populated from Shopify at runtime)

FORBIDDEN:
- No checkout UI beyond redirecting to cart.checkoutUrl
- No auth of any kind
- No database calls
- No hardcoded Shopify credentials — they come from environment variables via @/lib/shopify
- No Stripe, no payment logic`

var systemInstruction = renderSystemInstruction()

// SystemInstruction returns the fixed system prompt.
func SystemInstruction() string { return systemInstruction }

func renderSystemInstruction() string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "REQUIRED FILES — generate all %d, no more, no less:\n", len(RequiredFiles))
	for i, f := range RequiredFiles {
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, f.Path, f.Role)
	}
	b.WriteString("\nSHOPIFY IMPORTS — use these exact import paths, never reimplement:\n")
	for _, r := range ImportRules {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	b.WriteString("- Cart API is at /api/cart — CartProvider handles all cart state\n")
	b.WriteString("- Checkout: redirect to cart.checkoutUrl — never build custom checkout UI\n\n")

	b.WriteString(rules)
	return b.String()
}
