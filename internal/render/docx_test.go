package render

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenliangsheng/tmbilling/internal/billing"
	"github.com/shenliangsheng/tmbilling/internal/extract"
)

const templateDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>申请人：{申请人}</w:t></w:r></w:p>
<w:p><w:r><w:t>事宜：{事宜类型} 日期：{日期}</w:t></w:r></w:p>
<w:tbl><w:tblPr><w:tblStyle w:val="a"/></w:tblPr>
<w:tr><w:trPr><w:tblHeader/></w:trPr><w:tc><w:p><w:r><w:t>序号</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>样例行</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>样例行2</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>
<w:p><w:r><w:t>官费 {总官费} 代理费 {总代理费} 总计 {总计}</w:t></w:r></w:p>
<w:p><w:r><w:t>大写：{大写}</w:t></w:r></w:p>
</w:body></w:document>`

func writeStatementTemplate(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "请款单模板.docx")
	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()

	zw := zip.NewWriter(out)
	entries := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   templateDocumentXML,
	}
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func sampleStatement() Statement {
	return Statement{
		Applicant:   "北京示例科技有限公司",
		MatterNames: []string{"驳回复审", "商标异议"},
		Items: []billing.LineItem{
			{CaseType: extract.RejectionReview, Trademark: "云雀", ClassCode: "9", OfficialFee: 675, AgentFee: 800, Subtotal: 1475},
			{CaseType: extract.Opposition, Trademark: "晨星", ClassCode: "25", OfficialFee: 450, AgentFee: 800, Subtotal: 1250},
		},
		Summary: billing.FeeSummary{
			TotalOfficial: 1125,
			TotalAgent:    1600,
			Total:         2725,
			Capitalized:   "贰仟柒佰贰拾伍元整",
		},
	}
}

func TestStatementRendererRender(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeStatementTemplate(t, dir)
	date := time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)

	filename, err := NewStatementRenderer(tmpl).Render(sampleStatement(), date, dir)
	require.NoError(t, err)
	assert.Equal(t, "请款单（北京示例科技有限公司-驳回复审、商标异议）-2725-20240315.docx", filename)

	doc, err := ReadDocumentXML(filepath.Join(dir, filename))
	require.NoError(t, err)

	assert.Contains(t, doc, "申请人：北京示例科技有限公司")
	assert.Contains(t, doc, "事宜：驳回复审、商标异议")
	assert.Contains(t, doc, "日期：2024年03月15日")
	assert.Contains(t, doc, "官费 1125 代理费 1600 总计 2725")
	assert.Contains(t, doc, "大写：贰仟柒佰贰拾伍元整")
	assert.NotContains(t, doc, "{", "no placeholder survives rendering")
}

func TestStatementRendererRewritesTable(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeStatementTemplate(t, dir)
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)

	filename, err := NewStatementRenderer(tmpl).Render(sampleStatement(), date, dir)
	require.NoError(t, err)

	doc, err := ReadDocumentXML(filepath.Join(dir, filename))
	require.NoError(t, err)

	assert.NotContains(t, doc, "样例行", "template sample rows are dropped")
	assert.Contains(t, doc, ">序号<", "header row survives")

	// Header + two item rows + 合计 row.
	assert.Equal(t, 4, strings.Count(doc, "<w:tr>")+strings.Count(doc, "<w:tr "))
	assert.Contains(t, doc, ">云雀<")
	assert.Contains(t, doc, ">驳回复审<")
	assert.Contains(t, doc, ">1475<")
	assert.Contains(t, doc, ">合计<")
	assert.Contains(t, doc, `<w:gridSpan w:val="4"/>`)

	// Item rows are numbered from 1 and stay inside the table.
	tblEnd := strings.Index(doc, "</w:tbl>")
	require.Greater(t, tblEnd, 0)
	assert.Contains(t, doc[:tblEnd], ">1<")
	assert.Contains(t, doc[:tblEnd], ">2<")
}

func TestStatementRendererEscapesXML(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeStatementTemplate(t, dir)

	st := sampleStatement()
	st.Applicant = "示例<科技>&公司"
	st.Items = st.Items[:1]
	st.Items[0].Trademark = `云雀"特制"`

	filename, err := NewStatementRenderer(tmpl).Render(st, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), dir)
	require.NoError(t, err)

	doc, err := ReadDocumentXML(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Contains(t, doc, "示例&lt;科技&gt;&amp;公司")
	assert.Contains(t, doc, "云雀&quot;特制&quot;")
}

func TestStatementRendererMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	r := NewStatementRenderer(filepath.Join(dir, "不存在.docx"))

	_, err := r.Render(sampleStatement(), time.Now(), dir)
	var missing *TemplateMissingError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Error(), "找不到模板文件")
}

func TestTemplateMissingErrorUnwraps(t *testing.T) {
	err := error(&TemplateMissingError{Path: "x.docx"})
	var missing *TemplateMissingError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, "x.docx", missing.Path)
}
