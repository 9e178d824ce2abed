package render

import "fmt"

// TemplateMissingError reports an absent office-document template. It is
// fatal for the whole rendering stage: nothing can be rendered without the
// template. Extraction results are unaffected, so the operator can supply
// the template and retry generation.
type TemplateMissingError struct {
	Path string
}

func (e *TemplateMissingError) Error() string {
	return fmt.Sprintf("找不到模板文件: %s", e.Path)
}
