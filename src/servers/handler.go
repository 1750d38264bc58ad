package servers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/yuhaohwang/flv-inspector/src/consts"
	"github.com/yuhaohwang/flv-inspector/src/instance"
	"github.com/yuhaohwang/flv-inspector/src/pkg/parser"
)

const defaultRecentTags = 50

// getInfo 返回应用程序信息。
func getInfo(writer http.ResponseWriter, r *http.Request) {
	writeJSON(writer, consts.AppInfo)
}

// getConfig 返回当前生效的配置。
func getConfig(writer http.ResponseWriter, r *http.Request) {
	writeJSON(writer, instance.GetInstance(r.Context()).Config)
}

// getStatus 返回分析器的解析进度。
func getStatus(writer http.ResponseWriter, r *http.Request) {
	inst := instance.GetInstance(r.Context())
	if inst.Analyzer == nil {
		writeError(writer, http.StatusServiceUnavailable, "分析器未就绪")
		return
	}
	status, err := inst.Analyzer.GetStatus()
	if err != nil {
		writeError(writer, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(writer, status)
}

// getTag 按标签序号返回缓存中的标签记录。
func getTag(writer http.ResponseWriter, r *http.Request) {
	inst := instance.GetInstance(r.Context())
	index, err := strconv.ParseUint(mux.Vars(r)["index"], 10, 32)
	if err != nil {
		writeError(writer, http.StatusBadRequest, err.Error())
		return
	}
	if inst.Cache == nil {
		writeError(writer, http.StatusNotFound, "标签不在缓存中")
		return
	}
	rec, err := inst.Cache.Get(uint32(index))
	if err != nil {
		writeError(writer, http.StatusNotFound, "标签不在缓存中")
		return
	}
	writeJSON(writer, rec)
}

// getRecentTags 按序号升序返回最近解析的标签记录，limit 参数限制条数。
func getRecentTags(writer http.ResponseWriter, r *http.Request) {
	inst := instance.GetInstance(r.Context())
	limit := defaultRecentTags
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(writer, http.StatusBadRequest, "无效的 limit: "+s)
			return
		}
		limit = n
	}

	recs := make([]*parser.Record, 0)
	if inst.Cache != nil {
		for _, v := range inst.Cache.GetALL(false) {
			if rec, ok := v.(*parser.Record); ok {
				recs = append(recs, rec)
			}
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Index < recs[j].Index
	})
	if len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	writeJSON(writer, recs)
}
