package browser

import (
	"encoding/json"
	"fmt"
)

const (
	// runtimeName is the window property holding the page-side helpers.
	runtimeName = "__billie"
	// bindingName is the CDP binding the page calls to report events.
	bindingName = "__billieEmit"
)

// runtimeJS installs window.__billie. Handlers call the CDP binding with the
// JSON payload they were registered with; all state lives on the Go side.
const runtimeJS = `(function (css) {
  if (window.%[1]s) return;
  var emit = function (payload) { window.%[2]s(payload); };
  var byId = function (id) { return document.querySelector('[data-billie-id="' + id + '"]'); };
  if (css) {
    var style = document.createElement('style');
    style.setAttribute('data-billie', 'styles');
    style.textContent = css;
    document.head.appendChild(style);
  }
  window.%[1]s = {
    measure: function (selector) {
      var el = null;
      try { el = document.querySelector(selector); } catch (e) { return {found: false}; }
      if (!el) return {found: false};
      var r = el.getBoundingClientRect();
      return {found: true, width: r.width, height: r.height, top: r.top, left: r.left};
    },
    viewport: function () {
      return {
        width: window.innerWidth,
        height: window.innerHeight,
        scroll: {x: window.pageXOffset, y: window.pageYOffset}
      };
    },
    append: function (html) {
      document.body.insertAdjacentHTML('beforeend', html);
      return true;
    },
    remove: function (id) {
      var el = byId(id);
      if (el) el.remove();
      return true;
    },
    bind: function (id, payload) {
      var el = byId(id);
      if (!el) return false;
      el.addEventListener('click', function (e) {
        e.preventDefault();
        e.stopPropagation();
        emit(payload);
      });
      return true;
    },
    listenKey: function (key, payload) {
      document.addEventListener('keyup', function (e) {
        if (e.key === key) emit(payload);
      });
      return true;
    }
  };
  return true;
})(%[3]s)`

func runtimeScript(css string) string {
	encoded, _ := json.Marshal(css)
	return fmt.Sprintf(runtimeJS, runtimeName, bindingName, encoded)
}
