package render

// Markdown renders an answer for the terminal. Renderers come from a pool
// keyed by opts, so the chat view and the one-shot output can render at the
// same time.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}
